package heatshrink

import "errors"

var errBadDistance = errors.New("heatshrink: back reference before start of output")

type bitReader struct {
	b   []byte
	pos int
}

func (r *bitReader) readBits(width uint) (uint, bool) {
	if r.pos+int(width) > len(r.b)*8 {
		return 0, false
	}
	var v uint
	for i := uint(0); i < width; i++ {
		v = v<<1 | uint(r.b[r.pos>>3]>>(7-uint(r.pos)&7)&1)
		r.pos++
	}
	return v, true
}

// Decompress decodes a stream produced by Compress, or by any encoder
// using the same window and lookahead parameters, and returns the
// original bytes. Input draining mid unit marks the end of the stream.
func Decompress(p []byte) ([]byte, error) {
	r := bitReader{b: p}
	var out []byte
	for {
		tag, ok := r.readBits(1)
		if !ok {
			return out, nil
		}
		if tag == 1 {
			v, ok := r.readBits(8)
			if !ok {
				return out, nil
			}
			out = append(out, byte(v))
			continue
		}
		dist, ok := r.readBits(WindowBits)
		if !ok {
			return out, nil
		}
		length, ok := r.readBits(LookaheadBits)
		if !ok {
			return out, nil
		}
		d, n := int(dist)+1, int(length)+1
		if d > len(out) {
			return nil, errBadDistance
		}
		for i := 0; i < n; i++ {
			out = append(out, out[len(out)-d])
		}
	}
}
