package pdfdoc

import (
	"bytes"
	"fmt"
)

// parser builds PDF objects from a token stream. A resolver may be supplied
// so that stream lengths given as indirect references can be followed while
// the stream is being read.
type parser struct {
	lex     *lexer
	resolve func(Ref) (Object, error) // optional
	peeked  []token
}

func newParser(data []byte, pos int, resolve func(Ref) (Object, error)) *parser {
	return &parser{lex: newLexer(data, pos), resolve: resolve}
}

func (p *parser) next() (token, error) {
	if n := len(p.peeked); n > 0 {
		t := p.peeked[n-1]
		p.peeked = p.peeked[:n-1]
		return t, nil
	}
	return p.lex.next()
}

func (p *parser) push(t token) {
	p.peeked = append(p.peeked, t)
}

// parseObject parses one object starting at the next token.
func (p *parser) parseObject() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *parser) parseFrom(tok token) (Object, error) {
	switch tok.kind {
	case tokNumber:
		if tok.isInt {
			// Lookahead for "num gen R" indirect references.
			if ref, ok, err := p.tryRef(tok); err != nil {
				return nil, err
			} else if ok {
				return ref, nil
			}
			return tok.i, nil
		}
		return tok.f, nil

	case tokName:
		return Name(tok.lit), nil

	case tokString, tokHexString:
		return string(tok.lit), nil

	case tokArrayOpen:
		return p.parseArray()

	case tokDictOpen:
		return p.parseDictOrStream()

	case tokKeyword:
		switch string(tok.lit) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q", tok.lit)

	case tokEOF:
		return nil, fmt.Errorf("unexpected end of data")

	default:
		return nil, fmt.Errorf("unexpected token kind %d", tok.kind)
	}
}

// tryRef checks whether the integer token begins a "num gen R" reference.
func (p *parser) tryRef(num token) (Ref, bool, error) {
	second, err := p.next()
	if err != nil {
		return Ref{}, false, err
	}
	if second.kind != tokNumber || !second.isInt {
		p.push(second)
		return Ref{}, false, nil
	}
	third, err := p.next()
	if err != nil {
		return Ref{}, false, err
	}
	if third.keywordIs("R") {
		return Ref{Num: int(num.i), Gen: int(second.i)}, true, nil
	}
	p.push(third)
	p.push(second)
	return Ref{}, false, nil
}

func (p *parser) parseArray() (Array, error) {
	var arr Array
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokArrayClose {
			return arr, nil
		}
		if tok.kind == tokEOF {
			return nil, fmt.Errorf("unterminated array")
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDictOrStream parses a dictionary and, when it is followed by the
// "stream" keyword, the stream body as well.
func (p *parser) parseDictOrStream() (Object, error) {
	dict := make(Dict)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokDictClose {
			break
		}
		if tok.kind != tokName {
			return nil, fmt.Errorf("dictionary key is not a name (token kind %d)", tok.kind)
		}
		val, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		dict[Name(tok.lit)] = val
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !tok.keywordIs("stream") {
		p.push(tok)
		return dict, nil
	}
	return p.readStream(dict)
}

// readStream slices the raw stream body following a "stream" keyword. The
// Length entry is authoritative when it checks out; otherwise the body is
// recovered by scanning for the endstream marker.
func (p *parser) readStream(dict Dict) (*Stream, error) {
	data := p.lex.data

	// The stream body starts after an EOL following the keyword.
	pos := p.lex.pos
	if pos < len(data) && data[pos] == '\r' {
		pos++
	}
	if pos < len(data) && data[pos] == '\n' {
		pos++
	}

	length, ok := p.streamLength(dict)
	if !ok || pos+length > len(data) || !followedByEndstream(data, pos+length) {
		// Recover by scanning.
		idx := bytes.Index(data[pos:], []byte("endstream"))
		if idx < 0 {
			return nil, fmt.Errorf("stream without endstream marker")
		}
		length = idx
		// Trim the EOL that separates body from marker.
		for length > 0 && (data[pos+length-1] == '\n' || data[pos+length-1] == '\r') {
			length--
		}
	}

	raw := data[pos : pos+length]
	p.lex.pos = pos + length

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !tok.keywordIs("endstream") {
		return nil, fmt.Errorf("expected endstream, got %q", tok.lit)
	}

	return &Stream{Dict: dict, Raw: raw}, nil
}

func (p *parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case int64:
		return int(v), true
	case Ref:
		if p.resolve == nil {
			return 0, false
		}
		obj, err := p.resolve(v)
		if err != nil {
			return 0, false
		}
		if n, ok := obj.(int64); ok {
			return int(n), true
		}
	}
	return 0, false
}

func followedByEndstream(data []byte, pos int) bool {
	for pos < len(data) && (data[pos] == '\r' || data[pos] == '\n' || data[pos] == ' ') {
		pos++
	}
	return bytes.HasPrefix(data[pos:], []byte("endstream"))
}

// parseIndirect parses an indirect object definition "num gen obj ... endobj"
// at the given offset.
func parseIndirect(data []byte, offset int, resolve func(Ref) (Object, error)) (int, Object, error) {
	p := newParser(data, offset, resolve)

	numTok, err := p.next()
	if err != nil {
		return 0, nil, err
	}
	genTok, err := p.next()
	if err != nil {
		return 0, nil, err
	}
	objTok, err := p.next()
	if err != nil {
		return 0, nil, err
	}
	if numTok.kind != tokNumber || !numTok.isInt || genTok.kind != tokNumber || !objTok.keywordIs("obj") {
		return 0, nil, fmt.Errorf("malformed indirect object header at offset %d", offset)
	}

	obj, err := p.parseObject()
	if err != nil {
		return 0, nil, fmt.Errorf("object %d: %w", numTok.i, err)
	}
	return int(numTok.i), obj, nil
}
