package heatshrink

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressKnownVectors(t *testing.T) {
	tables := []struct {
		name string
		in   []byte
		out  []byte
	}{
		{
			// Tag bit plus the literal byte, zero padded.
			name: "single literal",
			in:   []byte{0xab},
			out:  []byte{0xd5, 0x80},
		},
		{
			// One literal then a distance 1, length 15 back reference.
			name: "run of zeros",
			in:   bytes.Repeat([]byte{0x00}, 16),
			out:  []byte{0x80, 0x00, 0x38},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.out, Compress(table.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	long := make([]byte, 4096)
	for i := range long {
		long[i] = byte((i*7 + i/256) % 251)
	}

	distinct := make([]byte, 256)
	for i := range distinct {
		distinct[i] = byte(i)
	}

	tables := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0x42}},
		{"text", []byte("the quick brown fox jumps over the lazy dog")},
		{"short period", bytes.Repeat([]byte("ab"), 100)},
		{"run longer than lookahead", bytes.Repeat([]byte{0xff}, 100)},
		{"incompressible", distinct},
		{"longer than window", long},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			enc := Compress(table.in)
			dec, err := Decompress(enc)
			require.NoError(t, err)
			if len(table.in) == 0 {
				assert.Empty(t, dec)
			} else {
				assert.Equal(t, table.in, dec)
			}
		})
	}
}

func TestCompressDeterministic(t *testing.T) {
	in := []byte("abcabcabcabcabc repetitive enough to reference backwards")
	assert.Equal(t, Compress(in), Compress(in))
}

func TestCompressShrinksRepetition(t *testing.T) {
	in := bytes.Repeat([]byte{0x00}, 256)
	assert.Less(t, len(Compress(in)), len(in))
}

func TestDecompressBadDistance(t *testing.T) {
	// A back reference as the first unit has nothing to point at.
	_, err := Decompress([]byte{0x00, 0x00})
	assert.Error(t, err)
}

func TestDecompressEmpty(t *testing.T) {
	out, err := Decompress(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
