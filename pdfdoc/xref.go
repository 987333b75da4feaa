package pdfdoc

import (
	"bytes"
	"fmt"
	"strconv"
)

// xrefEntry locates one object: either a byte offset into the file, or a
// position inside an object stream.
type xrefEntry struct {
	free      bool
	offset    int
	inStream  bool
	streamNum int // object stream number when inStream
	streamIdx int // index within that stream
}

// xrefTable is the merged cross-reference information of the whole file.
// Entries from newer sections win over entries from the chain of Prev
// sections.
type xrefTable struct {
	entries map[int]xrefEntry
	trailer Dict
}

// maxXRefSections bounds the Prev chain so a cyclic file cannot loop us.
const maxXRefSections = 64

// parseXRefChain locates the startxref pointer and walks the whole chain of
// cross-reference sections, merging them newest-first.
func parseXRefChain(data []byte) (*xrefTable, error) {
	start, err := findStartXref(data)
	if err != nil {
		return nil, err
	}

	table := &xrefTable{entries: make(map[int]xrefEntry)}
	seen := make(map[int]bool)
	queue := []int{start}

	for n := 0; len(queue) > 0 && n < maxXRefSections; n++ {
		offset := queue[0]
		queue = queue[1:]
		if offset < 0 || offset >= len(data) || seen[offset] {
			continue
		}
		seen[offset] = true

		trailer, err := parseXRefSection(data, offset, table)
		if err != nil {
			return nil, fmt.Errorf("xref section at offset %d: %w", offset, err)
		}

		if table.trailer == nil {
			table.trailer = trailer
		}
		// Hybrid-reference files point at a parallel xref stream.
		if stm, ok := trailer.GetInt("XRefStm"); ok {
			queue = append(queue, int(stm))
		}
		if prev, ok := trailer.GetInt("Prev"); ok {
			queue = append(queue, int(prev))
		}
	}

	if table.trailer == nil {
		return nil, fmt.Errorf("no trailer found")
	}
	return table, nil
}

// findStartXref scans the file tail for the startxref pointer.
func findStartXref(data []byte) (int, error) {
	tail := data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}

	lex := newLexer(tail, idx+len("startxref"))
	tok, err := lex.next()
	if err != nil || tok.kind != tokNumber || !tok.isInt {
		return 0, fmt.Errorf("startxref is not followed by an offset")
	}
	return int(tok.i), nil
}

// parseXRefSection parses one section (classic table or xref stream) into
// the table and returns the section's trailer dictionary.
func parseXRefSection(data []byte, offset int, table *xrefTable) (Dict, error) {
	lex := newLexer(data, offset)
	tok, err := lex.next()
	if err != nil {
		return nil, err
	}
	if tok.keywordIs("xref") {
		return parseClassicXRef(data, lex.pos, table)
	}
	return parseXRefStream(data, offset, table)
}

// parseClassicXRef parses "xref" subsections of fixed-width entries followed
// by the trailer dictionary.
func parseClassicXRef(data []byte, pos int, table *xrefTable) (Dict, error) {
	p := newParser(data, pos, nil)

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.keywordIs("trailer") {
			obj, err := p.parseObject()
			if err != nil {
				return nil, fmt.Errorf("trailer: %w", err)
			}
			trailer, ok := obj.(Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is not a dictionary: %T", obj)
			}
			return trailer, nil
		}
		if tok.kind != tokNumber || !tok.isInt {
			return nil, fmt.Errorf("expected subsection start, got token kind %d", tok.kind)
		}
		start := int(tok.i)

		countTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if countTok.kind != tokNumber || !countTok.isInt {
			return nil, fmt.Errorf("expected subsection count")
		}
		count := int(countTok.i)

		for i := 0; i < count; i++ {
			offTok, err := p.next()
			if err != nil {
				return nil, err
			}
			genTok, err := p.next()
			if err != nil {
				return nil, err
			}
			kindTok, err := p.next()
			if err != nil {
				return nil, err
			}
			if offTok.kind != tokNumber || genTok.kind != tokNumber || kindTok.kind != tokKeyword {
				return nil, fmt.Errorf("malformed xref entry %d of subsection at %d", i, start)
			}

			num := start + i
			if _, exists := table.entries[num]; exists {
				continue // a newer section already defined this object
			}
			switch string(kindTok.lit) {
			case "n":
				table.entries[num] = xrefEntry{offset: int(offTok.i)}
			case "f":
				table.entries[num] = xrefEntry{free: true}
			default:
				return nil, fmt.Errorf("unknown xref entry kind %q", kindTok.lit)
			}
		}
	}
}

// parseXRefStream parses a cross-reference stream section.
func parseXRefStream(data []byte, offset int, table *xrefTable) (Dict, error) {
	_, obj, err := parseIndirect(data, offset, nil)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref section is neither a table nor a stream (%T)", obj)
	}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding xref stream: %w", err)
	}

	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) < 3 {
		return nil, fmt.Errorf("xref stream missing W array")
	}
	var w [3]int
	for i := 0; i < 3; i++ {
		n, ok := toFloat(wArr[i])
		if !ok {
			return nil, fmt.Errorf("bad W entry %d", i)
		}
		w[i] = int(n)
	}
	entryLen := w[0] + w[1] + w[2]
	if entryLen <= 0 {
		return nil, fmt.Errorf("degenerate W array %v", w)
	}

	size, ok := stream.Dict.GetInt("Size")
	if !ok {
		return nil, fmt.Errorf("xref stream missing Size")
	}

	// Index defaults to a single run covering every object.
	runs := []int{0, int(size)}
	if idxArr, ok := stream.Dict.GetArray("Index"); ok && len(idxArr)%2 == 0 {
		runs = runs[:0]
		for _, v := range idxArr {
			n, ok := toFloat(v)
			if !ok {
				return nil, fmt.Errorf("bad Index entry")
			}
			runs = append(runs, int(n))
		}
	}

	pos := 0
	for r := 0; r+1 < len(runs); r += 2 {
		start, count := runs[r], runs[r+1]
		for i := 0; i < count; i++ {
			if pos+entryLen > len(decoded) {
				return nil, fmt.Errorf("xref stream data too short")
			}
			f0 := readField(decoded[pos:pos+w[0]], 1) // type defaults to 1
			f1 := readField(decoded[pos+w[0]:pos+w[0]+w[1]], 0)
			f2 := readField(decoded[pos+w[0]+w[1]:pos+entryLen], 0)
			pos += entryLen

			num := start + i
			if _, exists := table.entries[num]; exists {
				continue
			}
			switch f0 {
			case 0:
				table.entries[num] = xrefEntry{free: true}
			case 1:
				table.entries[num] = xrefEntry{offset: f1}
			case 2:
				table.entries[num] = xrefEntry{inStream: true, streamNum: f1, streamIdx: f2}
			}
		}
	}

	return stream.Dict, nil
}

// readField reads a big-endian field of the given width; zero-width fields
// yield the default.
func readField(b []byte, def int) int {
	if len(b) == 0 {
		return def
	}
	v := 0
	for _, x := range b {
		v = v<<8 | int(x)
	}
	return v
}

// rebuildXRef scans the whole file for "N G obj" headers when the xref
// machinery fails. It is the last-resort recovery path for files with
// corrupt offsets.
func rebuildXRef(data []byte) (*xrefTable, error) {
	table := &xrefTable{entries: make(map[int]xrefEntry)}

	pos := 0
	for {
		idx := bytes.Index(data[pos:], []byte(" obj"))
		if idx < 0 {
			break
		}
		headEnd := pos + idx
		headStart := lineStart(data, headEnd)
		fields := bytes.Fields(data[headStart:headEnd])
		if len(fields) == 2 {
			if num, err := strconv.Atoi(string(fields[0])); err == nil {
				// Later definitions override earlier ones in a scan.
				table.entries[num] = xrefEntry{offset: headStart}
			}
		}
		pos = headEnd + 4
	}

	// Find a trailer dictionary for Root.
	idx := bytes.LastIndex(data, []byte("trailer"))
	if idx >= 0 {
		p := newParser(data, idx+len("trailer"), nil)
		if obj, err := p.parseObject(); err == nil {
			if d, ok := obj.(Dict); ok {
				table.trailer = d
			}
		}
	}
	if table.trailer == nil {
		return nil, fmt.Errorf("cannot rebuild: no trailer dictionary found")
	}
	return table, nil
}

func lineStart(data []byte, pos int) int {
	for pos > 0 && data[pos-1] != '\n' && data[pos-1] != '\r' {
		pos--
	}
	return pos
}
