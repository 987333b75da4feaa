package pdfdoc

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName      // /Type
	tokString    // (hello), already unescaped
	tokHexString // <48656C6C6F>, already decoded
	tokKeyword   // obj, endobj, stream, R, true, ...
	tokArrayOpen
	tokArrayClose
	tokDictOpen
	tokDictClose
)

// token is one lexical unit of PDF syntax.
type token struct {
	kind  tokenKind
	lit   []byte // decoded payload for strings/names, raw text for keywords
	isInt bool
	i     int64
	f     float64
}

// lexer tokenizes PDF syntax directly over the file buffer.
type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte, pos int) *lexer {
	return &lexer{data: data, pos: pos}
}

func isSpace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0a, 0x0c, 0x0d, 0x20:
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skipSpace advances past whitespace and comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isSpace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{kind: tokEOF}, nil
	}

	b := l.data[l.pos]
	switch {
	case b == '[':
		l.pos++
		return token{kind: tokArrayOpen}, nil
	case b == ']':
		l.pos++
		return token{kind: tokArrayClose}, nil
	case b == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokDictOpen}, nil
		}
		return l.readHexString()
	case b == '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokDictClose}, nil
		}
		return token{}, fmt.Errorf("stray '>' at offset %d", l.pos)
	case b == '(':
		return l.readString()
	case b == '/':
		return l.readName()
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		return l.readNumber()
	default:
		return l.readKeyword()
	}
}

// readString reads a literal string, handling nested parentheses, escape
// sequences, and octal codes.
func (l *lexer) readString() (token, error) {
	l.pos++ // consume '('
	var out []byte
	depth := 1

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				return token{kind: tokString, lit: out}, nil
			}
			out = append(out, b)
		case '\\':
			if l.pos >= len(l.data) {
				return token{}, fmt.Errorf("unterminated string escape at offset %d", l.pos)
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\r':
				// Line continuation; swallow an optional LF too.
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for n := 0; n < 2 && l.pos < len(l.data); n++ {
						c := l.data[l.pos]
						if c < '0' || c > '7' {
							break
						}
						v = v*8 + int(c-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					// Unknown escape: the backslash is dropped.
					out = append(out, e)
				}
			}
		default:
			out = append(out, b)
		}
	}

	return token{}, fmt.Errorf("unterminated string at offset %d", l.pos)
}

// readHexString reads <hex> string syntax, decoding pairs of hex digits.
// An odd trailing digit is padded with zero per the PDF spec.
func (l *lexer) readHexString() (token, error) {
	l.pos++ // consume '<'
	var digits []byte

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := 0; i < len(out); i++ {
				hi := hexVal(digits[2*i])
				lo := hexVal(digits[2*i+1])
				if hi < 0 || lo < 0 {
					return token{}, fmt.Errorf("invalid hex digit in string near offset %d", l.pos)
				}
				out[i] = byte(hi<<4 | lo)
			}
			return token{kind: tokHexString, lit: out}, nil
		}
		if isSpace(b) {
			continue
		}
		digits = append(digits, b)
	}

	return token{}, fmt.Errorf("unterminated hex string at offset %d", l.pos)
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

// readName reads a /Name token, decoding #xx escapes.
func (l *lexer) readName() (token, error) {
	l.pos++ // consume '/'
	var out []byte

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isSpace(b) || isDelim(b) {
			break
		}
		l.pos++
		if b == '#' && l.pos+1 < len(l.data) {
			hi := hexVal(l.data[l.pos])
			lo := hexVal(l.data[l.pos+1])
			if hi >= 0 && lo >= 0 {
				out = append(out, byte(hi<<4|lo))
				l.pos += 2
				continue
			}
		}
		out = append(out, b)
	}

	return token{kind: tokName, lit: out}, nil
}

// readNumber reads an integer or real token.
func (l *lexer) readNumber() (token, error) {
	start := l.pos
	if b := l.data[l.pos]; b == '+' || b == '-' {
		l.pos++
	}
	real := false
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '.' {
			real = true
			l.pos++
			continue
		}
		if b < '0' || b > '9' {
			break
		}
		l.pos++
	}

	lit := l.data[start:l.pos]
	if real {
		f, err := strconv.ParseFloat(string(lit), 64)
		if err != nil {
			return token{}, fmt.Errorf("bad real %q at offset %d", lit, start)
		}
		return token{kind: tokNumber, f: f}, nil
	}
	i, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return token{}, fmt.Errorf("bad integer %q at offset %d", lit, start)
	}
	return token{kind: tokNumber, isInt: true, i: i, f: float64(i)}, nil
}

// readKeyword reads a bare keyword (obj, stream, R, true, ...).
func (l *lexer) readKeyword() (token, error) {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isSpace(b) || isDelim(b) {
			break
		}
		l.pos++
	}
	if l.pos == start {
		return token{}, fmt.Errorf("unexpected byte 0x%02x at offset %d", l.data[start], start)
	}
	return token{kind: tokKeyword, lit: l.data[start:l.pos]}, nil
}

// keywordIs reports whether the token is the given keyword.
func (t token) keywordIs(kw string) bool {
	return t.kind == tokKeyword && string(t.lit) == kw
}
