/*
Package heatshrink implements the heatshrink LZSS compression format used
for icon frame payloads.

The compressed stream is a sequence of bit-packed units, most significant
bit first. A unit is either a literal, a 1 bit followed by the eight bits
of the literal byte, or a back reference, a 0 bit followed by WindowBits
bits holding the reference distance minus one and LookaheadBits bits
holding the reference length minus one. References may overlap the bytes
they produce; the decoder copies byte by byte. Any final partial byte is
padded with zero bits, which is too short to form another unit, so a
decoder simply stops when the input drains mid unit.
*/
package heatshrink

const (
	// WindowBits and LookaheadBits are fixed to match the decoder
	// compiled into the firmware. Streams produced with different
	// parameters do not decode on device.
	WindowBits    = 8
	LookaheadBits = 4

	windowSize = 1 << WindowBits
	maxMatch   = 1 << LookaheadBits

	// A back reference costs 1+WindowBits+LookaheadBits bits against
	// nine bits per literal byte.
	breakEven = 1 + WindowBits + LookaheadBits
	minMatch  = breakEven/8 + 1
)
