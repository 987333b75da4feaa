package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrParse marks malformed document bytes. Every error returned by Open for
// bad input wraps it, so callers can distinguish parse failures from
// programming errors with errors.Is.
var ErrParse = errors.New("malformed PDF document")

// Document is one parsed PDF held fully in memory. A Document is read-only
// after Open and safe for concurrent use.
type Document struct {
	data  []byte
	xref  *xrefTable
	cache map[int]Object

	// objStms caches parsed object streams by stream object number.
	objStms map[int][]Object

	pages []*Page
}

// Open parses the document and builds its page list. The byte slice is
// retained; the caller must not mutate it afterwards.
func Open(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrParse)
	}

	doc := &Document{
		data:    data,
		cache:   make(map[int]Object),
		objStms: make(map[int][]Object),
	}

	xref, err := parseXRefChain(data)
	if err != nil {
		// Corrupt offsets are common enough that a full-file scan is
		// worth attempting before giving up.
		xref, err = rebuildXRef(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	doc.xref = xref

	if err := doc.loadPages(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page at the given 0-based index.
func (d *Document) Page(index int) (*Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// object loads the object with the given number, caching the result.
func (d *Document) object(num int) (Object, error) {
	if obj, ok := d.cache[num]; ok {
		return obj, nil
	}

	entry, ok := d.xref.entries[num]
	if !ok || entry.free {
		return nil, nil // missing and free objects read as null
	}

	var obj Object
	var err error
	if entry.inStream {
		obj, err = d.objectFromStream(entry.streamNum, entry.streamIdx)
	} else {
		var parsedNum int
		parsedNum, obj, err = parseIndirect(d.data, entry.offset, d.resolveRef)
		if err == nil && parsedNum != num {
			err = fmt.Errorf("object number mismatch: expected %d, found %d", num, parsedNum)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}

	d.cache[num] = obj
	return obj, nil
}

// objectFromStream loads an object stored inside an object stream
// (compressed object). The whole stream is parsed on first access.
func (d *Document) objectFromStream(streamNum, idx int) (Object, error) {
	objs, ok := d.objStms[streamNum]
	if !ok {
		var err error
		objs, err = d.parseObjectStream(streamNum)
		if err != nil {
			return nil, err
		}
		d.objStms[streamNum] = objs
	}
	if idx < 0 || idx >= len(objs) {
		return nil, fmt.Errorf("index %d out of range in object stream %d", idx, streamNum)
	}
	return objs[idx], nil
}

func (d *Document) parseObjectStream(streamNum int) ([]Object, error) {
	container, err := d.object(streamNum)
	if err != nil {
		return nil, err
	}
	stream, ok := container.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %d is not an object stream", streamNum)
	}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding object stream %d: %w", streamNum, err)
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok {
		return nil, fmt.Errorf("object stream %d missing N", streamNum)
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok {
		return nil, fmt.Errorf("object stream %d missing First", streamNum)
	}

	// The header is N pairs of "objnum offset".
	head := newLexer(decoded, 0)
	offsets := make([]int, 0, n)
	for i := int64(0); i < n; i++ {
		numTok, err := head.next()
		if err != nil {
			return nil, err
		}
		offTok, err := head.next()
		if err != nil {
			return nil, err
		}
		if numTok.kind != tokNumber || offTok.kind != tokNumber {
			return nil, fmt.Errorf("object stream %d has a malformed header", streamNum)
		}
		offsets = append(offsets, int(offTok.i))
	}

	objs := make([]Object, 0, n)
	for _, off := range offsets {
		p := newParser(decoded, int(first)+off, d.resolveRef)
		obj, err := p.parseObject()
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", streamNum, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// resolveRef follows an indirect reference.
func (d *Document) resolveRef(ref Ref) (Object, error) {
	return d.object(ref.Num)
}

// resolve follows obj if it is a reference, otherwise returns it as-is.
func (d *Document) resolve(obj Object) (Object, error) {
	if ref, ok := obj.(Ref); ok {
		return d.object(ref.Num)
	}
	return obj, nil
}

// resolveDict resolves obj and asserts it is a dictionary.
func (d *Document) resolveDict(obj Object) (Dict, error) {
	resolved, err := d.resolve(obj)
	if err != nil {
		return nil, err
	}
	dict, ok := resolved.(Dict)
	if !ok {
		return nil, fmt.Errorf("expected dictionary, got %T", resolved)
	}
	return dict, nil
}
