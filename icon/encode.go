package icon

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
)

var errNoOutput = errors.New("icon: compressor produced no output")

// Compressor squeezes raw frame bytes. Implementations wrap the
// embedded codec or pipe through an external heatshrink binary.
type Compressor interface {
	Compress(ctx context.Context, p []byte) ([]byte, error)
}

// EncodeFrame encodes packed bitmap bytes into a frame. The compressed
// form carries a two byte little endian length before the stream and is
// kept only when, prefix included, it comes out no longer than the raw
// payload; otherwise the frame stays raw.
func EncodeFrame(ctx context.Context, raw []byte, c Compressor) (*Frame, error) {
	enc, err := c.Compress(ctx, raw)
	if err != nil {
		return nil, err
	}
	if len(enc) == 0 {
		return nil, errNoOutput
	}
	// The length prefix is 16 bits; anything larger stays raw.
	if len(enc) <= math.MaxUint16 {
		data := make([]byte, 2+len(enc))
		binary.LittleEndian.PutUint16(data, uint16(len(enc)))
		copy(data[2:], enc)
		if len(data) < len(raw)+1 {
			return &Frame{Compressed: true, Data: data}, nil
		}
	}
	return &Frame{Data: raw}, nil
}
