package xbm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	errEmpty     = errors.New("xbm: empty input")
	errGeometry  = errors.New("xbm: malformed geometry header")
	errNoBody    = errors.New("xbm: missing bitmap body")
	errNotEnough = errors.New("xbm: not enough bitmap data")
	errTooMuch   = errors.New("xbm: too much bitmap data")
)

func dimension(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, errGeometry
	}
	v, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || v <= 0 {
		return 0, errGeometry
	}
	return v, nil
}

// Decode parses a textual XBM bitmap. The last whitespace separated
// token of each of the first two lines carries the geometry; the rest
// of the input carries the byte array.
func Decode(r io.Reader) (*Bitmap, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil, errEmpty
	}
	lines := strings.SplitN(s, "\n", 3)
	if len(lines) < 3 {
		return nil, errNoBody
	}
	width, err := dimension(lines[0])
	if err != nil {
		return nil, err
	}
	height, err := dimension(lines[1])
	if err != nil {
		return nil, err
	}
	body := lines[2]
	open := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if open < 0 || end < open {
		return nil, errNoBody
	}

	b := &Bitmap{Width: width, Height: height}
	want := b.Stride() * b.Height
	for _, tok := range strings.Split(body[open+1:end], ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("xbm: invalid byte %q", tok)
		}
		if len(b.Pix) == want {
			return nil, errTooMuch
		}
		b.Pix = append(b.Pix, byte(v))
	}
	if len(b.Pix) < want {
		return nil, errNotEnough
	}
	return b, nil
}
