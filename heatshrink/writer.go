package heatshrink

type bitWriter struct {
	b   []byte
	cur byte
	n   uint
}

func (w *bitWriter) writeBit(bit byte) {
	w.cur = w.cur<<1 | bit
	w.n++
	if w.n == 8 {
		w.b = append(w.b, w.cur)
		w.cur, w.n = 0, 0
	}
}

func (w *bitWriter) writeBits(v, width uint) {
	for i := width; i > 0; i-- {
		w.writeBit(byte(v >> (i - 1) & 1))
	}
}

func (w *bitWriter) bytes() []byte {
	if w.n > 0 {
		return append(w.b, w.cur<<(8-w.n))
	}
	return w.b
}

// findMatch returns the distance and length of the longest match for
// src[pos:] within the window. Ties keep the nearest candidate.
func findMatch(src []byte, pos int) (dist, length int) {
	limit := pos - windowSize
	if limit < 0 {
		limit = 0
	}
	max := len(src) - pos
	if max > maxMatch {
		max = maxMatch
	}
	for start := pos - 1; start >= limit; start-- {
		if src[start] != src[pos] {
			continue
		}
		n := 1
		for n < max && src[start+n] == src[pos+n] {
			n++
		}
		if n > length {
			dist, length = pos-start, n
			if n == max {
				break
			}
		}
	}
	return dist, length
}

// Compress encodes p and returns the compressed stream. The output is a
// pure function of p, so repeated runs over the same input are byte
// identical. Incompressible input grows by one bit per byte plus padding.
func Compress(p []byte) []byte {
	var w bitWriter
	for pos := 0; pos < len(p); {
		dist, length := findMatch(p, pos)
		if length >= minMatch {
			w.writeBit(0)
			w.writeBits(uint(dist-1), WindowBits)
			w.writeBits(uint(length-1), LookaheadBits)
			pos += length
		} else {
			w.writeBit(1)
			w.writeBits(uint(p[pos]), 8)
			pos++
		}
	}
	return w.bytes()
}
