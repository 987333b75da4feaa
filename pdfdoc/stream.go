package pdfdoc

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"fmt"
	"io"
)

// Decode decodes the stream body according to its Filter entry. FlateDecode
// (with optional PNG predictors) and ASCIIHexDecode are supported, alone or
// chained; these cover the filters used for content and cross-reference
// streams in practice. Other filters are an error.
func (s *Stream) Decode() ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		return s.Raw, nil
	}

	var filters []Name
	switch v := filterObj.(type) {
	case Name:
		filters = []Name{v}
	case Array:
		for i, f := range v {
			name, ok := f.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, f)
			}
			filters = append(filters, name)
		}
	default:
		return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
	}

	parms := s.decodeParms(len(filters))

	data := s.Raw
	for i, name := range filters {
		var err error
		switch name {
		case "FlateDecode", "Fl":
			data, err = flateDecode(data, parms[i])
		case "ASCIIHexDecode", "AHx":
			data, err = asciiHexDecode(data)
		default:
			err = fmt.Errorf("unsupported filter %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	return data, nil
}

// decodeParms aligns the DecodeParms entry with the filter chain: either one
// dictionary for a single filter, or an array matching the chain.
func (s *Stream) decodeParms(n int) []Dict {
	out := make([]Dict, n)
	switch v := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		if n > 0 {
			out[0] = v
		}
	case Array:
		for i := 0; i < n && i < len(v); i++ {
			if d, ok := v[i].(Dict); ok {
				out[i] = d
			}
		}
	}
	return out
}

func flateDecode(data []byte, parms Dict) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	// A truncated tail is tolerated if we decoded something; some writers
	// omit the final checksum.
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	predictor, _ := parms.GetInt("Predictor")
	if predictor <= 1 {
		return out, nil
	}
	if predictor < 10 {
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}

	columns, ok := parms.GetInt("Columns")
	if !ok || columns <= 0 {
		columns = 1
	}
	colors, ok := parms.GetInt("Colors")
	if !ok || colors <= 0 {
		colors = 1
	}
	bpc, ok := parms.GetInt("BitsPerComponent")
	if !ok || bpc <= 0 {
		bpc = 8
	}
	return unpredictPNG(out, int(columns), int(colors), int(bpc))
}

// unpredictPNG reverses PNG row predictors (predictor values 10-15). Each
// row is prefixed with a filter-type byte.
func unpredictPNG(data []byte, columns, colors, bpc int) ([]byte, error) {
	bpp := (colors*bpc + 7) / 8
	rowLen := (columns*colors*bpc + 7) / 8
	stride := rowLen + 1

	if len(data)%stride != 0 {
		// Tolerate a short final row by truncating to whole rows.
		data = data[:len(data)/stride*stride]
	}
	rows := len(data) / stride
	out := make([]byte, 0, rows*rowLen)
	prev := make([]byte, rowLen)

	for r := 0; r < rows; r++ {
		ft := data[r*stride]
		row := append([]byte(nil), data[r*stride+1:(r+1)*stride]...)

		switch ft {
		case 0: // None
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				row[i] += row[i-bpp]
			}
		case 2: // Up
			for i := 0; i < rowLen; i++ {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLen; i++ {
				left := 0
				if i >= bpp {
					left = int(row[i-bpp])
				}
				row[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLen; i++ {
				left, upLeft := 0, 0
				if i >= bpp {
					left = int(row[i-bpp])
					upLeft = int(prev[i-bpp])
				}
				row[i] += paeth(left, int(prev[i]), upLeft)
			}
		default:
			return nil, fmt.Errorf("unknown PNG filter type %d", ft)
		}

		out = append(out, row...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c int) byte {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	if pa <= pb && pa <= pc {
		return byte(a)
	}
	if pb <= pc {
		return byte(b)
	}
	return byte(c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func asciiHexDecode(data []byte) ([]byte, error) {
	var digits []byte
	for _, b := range data {
		if b == '>' {
			break
		}
		if isSpace(b) {
			continue
		}
		digits = append(digits, b)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, err
	}
	return out, nil
}
