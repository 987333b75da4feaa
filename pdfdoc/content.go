package pdfdoc

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
)

// TextFragment is a run of text positioned on a page. X and Y are the text
// origin in PDF user space (origin at the bottom-left corner, y growing
// upward). Size is the current font size in points.
type TextFragment struct {
	Text string
	X, Y float64
	Size float64
}

// TextFragments extracts positioned text runs from the page's content
// streams. Only the text-positioning subset of the content language is
// interpreted; graphics operators are skipped. The current transformation
// matrix is not tracked, which is accurate for the common case of text
// placed via Td/Tm in default user space.
func (p *Page) TextFragments() ([]TextFragment, error) {
	content, err := p.contentBytes()
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, nil
	}
	return extractFragments(content), nil
}

// Text returns the page's plain text: fragments sorted top-to-bottom,
// left-to-right, with line breaks between distinct baselines.
func (p *Page) Text() (string, error) {
	fragments, err := p.TextFragments()
	if err != nil {
		return "", err
	}
	if len(fragments) == 0 {
		return "", nil
	}

	sorted := append([]TextFragment(nil), fragments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		// Higher Y first (top of page), then left to right.
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	const lineTolerance = 2.0 // points

	var b strings.Builder
	lastY := sorted[0].Y
	for i, f := range sorted {
		if i > 0 {
			if lastY-f.Y > lineTolerance {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.Text)
		lastY = f.Y
	}
	return b.String(), nil
}

// contentBytes concatenates the page's decoded content streams.
func (p *Page) contentBytes() ([]byte, error) {
	contents, err := p.doc.resolve(p.dict.Get("Contents"))
	if err != nil {
		return nil, err
	}

	var streams []*Stream
	switch v := contents.(type) {
	case nil:
		return nil, nil // empty page
	case *Stream:
		streams = []*Stream{v}
	case Array:
		for _, elem := range v {
			resolved, err := p.doc.resolve(elem)
			if err != nil {
				return nil, err
			}
			if s, ok := resolved.(*Stream); ok {
				streams = append(streams, s)
			}
		}
	default:
		return nil, fmt.Errorf("unexpected Contents type %T", contents)
	}

	var all []byte
	for _, s := range streams {
		data, err := s.Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding content stream: %w", err)
		}
		all = append(all, data...)
		all = append(all, '\n')
	}
	return all, nil
}

// textState is the text-positioning state of a content stream scan.
type textState struct {
	tm       matrix // text matrix
	tlm      matrix // text line matrix
	leading  float64
	fontSize float64
}

// matrix is a PDF-style affine matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m·n (m applied first).
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func translation(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// extractFragments scans content-stream operators, tracking enough text
// state to position each shown string.
func extractFragments(content []byte) []TextFragment {
	var fragments []TextFragment
	st := textState{tm: identity, tlm: identity}

	var operands []Object
	p := newParser(content, 0, nil)

	for {
		tok, err := p.next()
		if err != nil {
			// Content streams from real documents occasionally contain
			// binary inline-image data we cannot tokenize; stop at the
			// first hard error and keep what was extracted so far.
			break
		}
		if tok.kind == tokEOF {
			break
		}

		if tok.kind != tokKeyword || tok.keywordIs("true") || tok.keywordIs("false") || tok.keywordIs("null") {
			obj, err := p.parseFrom(tok)
			if err != nil {
				break
			}
			operands = append(operands, obj)
			continue
		}

		op := string(tok.lit)
		switch op {
		case "BT":
			st.tm, st.tlm = identity, identity

		case "ET":
			// Text object ends; positioning state resets at next BT.

		case "Tf":
			if len(operands) >= 2 {
				if size, ok := toFloat(operands[len(operands)-1]); ok {
					st.fontSize = size
				}
			}

		case "TL":
			if len(operands) >= 1 {
				if l, ok := toFloat(operands[len(operands)-1]); ok {
					st.leading = l
				}
			}

		case "Td":
			st.moveLine(operands)

		case "TD":
			if len(operands) >= 2 {
				if ty, ok := toFloat(operands[len(operands)-1]); ok {
					st.leading = -ty
				}
			}
			st.moveLine(operands)

		case "Tm":
			if len(operands) >= 6 {
				var m matrix
				valid := true
				for i := 0; i < 6; i++ {
					v, ok := toFloat(operands[len(operands)-6+i])
					if !ok {
						valid = false
						break
					}
					m[i] = v
				}
				if valid {
					st.tlm = m
					st.tm = m
				}
			}

		case "T*":
			st.nextLine()

		case "Tj":
			if len(operands) >= 1 {
				if s, ok := operands[len(operands)-1].(string); ok {
					fragments = appendFragment(fragments, &st, decodeText(s))
				}
			}

		case "'":
			st.nextLine()
			if len(operands) >= 1 {
				if s, ok := operands[len(operands)-1].(string); ok {
					fragments = appendFragment(fragments, &st, decodeText(s))
				}
			}

		case "\"":
			st.nextLine()
			if len(operands) >= 1 {
				if s, ok := operands[len(operands)-1].(string); ok {
					fragments = appendFragment(fragments, &st, decodeText(s))
				}
			}

		case "TJ":
			if len(operands) >= 1 {
				if arr, ok := operands[len(operands)-1].(Array); ok {
					fragments = appendTJ(fragments, &st, arr)
				}
			}
		}
		operands = operands[:0]
	}

	return fragments
}

func (st *textState) moveLine(operands []Object) {
	if len(operands) < 2 {
		return
	}
	tx, okX := toFloat(operands[len(operands)-2])
	ty, okY := toFloat(operands[len(operands)-1])
	if !okX || !okY {
		return
	}
	st.tlm = translation(tx, ty).mul(st.tlm)
	st.tm = st.tlm
}

func (st *textState) nextLine() {
	st.tlm = translation(0, -st.leading).mul(st.tlm)
	st.tm = st.tlm
}

// advance moves the text matrix horizontally by tx text-space units.
func (st *textState) advance(tx float64) {
	st.tm = translation(tx, 0).mul(st.tm)
}

// approxCharWidth estimates a glyph advance. Without font metrics a half-em
// average keeps successive fragments in plausible positions.
const approxCharWidth = 0.5

func appendFragment(fragments []TextFragment, st *textState, text string) []TextFragment {
	if text != "" {
		fragments = append(fragments, TextFragment{
			Text: text,
			X:    st.tm[4],
			Y:    st.tm[5],
			Size: st.fontSize,
		})
	}
	st.advance(float64(len(text)) * approxCharWidth * st.fontSize)
	return fragments
}

// appendTJ handles the array form of text showing: strings interleaved with
// kerning adjustments in thousandths of text space. Large negative
// adjustments are word gaps; they become spaces in the fragment.
func appendTJ(fragments []TextFragment, st *textState, arr Array) []TextFragment {
	var b strings.Builder
	x, y := st.tm[4], st.tm[5]

	for _, elem := range arr {
		switch v := elem.(type) {
		case string:
			b.WriteString(decodeText(v))
			st.advance(float64(len(v)) * approxCharWidth * st.fontSize)
		default:
			if adj, ok := toFloat(elem); ok {
				st.advance(-adj / 1000 * st.fontSize)
				if adj < -180 {
					b.WriteByte(' ')
				}
			}
		}
	}

	if b.Len() == 0 {
		return fragments
	}
	return append(fragments, TextFragment{Text: b.String(), X: x, Y: y, Size: st.fontSize})
}

// decodeText maps PDF string bytes to readable text. UTF-16BE strings are
// decoded properly; everything else falls back to a Latin-1 style byte map,
// which preserves ASCII and keeps substring search usable.
func decodeText(s string) string {
	b := []byte(s)
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
