package xbm

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

const bytesPerLine = 12

// Encode writes m to w as a textual XBM bitmap named name, the same
// shape the external converter emits.
func Encode(w io.Writer, m image.Image, name string) error {
	b := FromImage(m)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#define %s_width %d\n", name, b.Width)
	fmt.Fprintf(bw, "#define %s_height %d\n", name, b.Height)
	fmt.Fprintf(bw, "static unsigned char %s_bits[] = {", name)
	for i, v := range b.Pix {
		if i > 0 {
			bw.WriteString(",")
		}
		if i%bytesPerLine == 0 {
			bw.WriteString("\n  ")
		} else {
			bw.WriteString(" ")
		}
		fmt.Fprintf(bw, "0x%02x", v)
	}
	bw.WriteString("};\n")
	return bw.Flush()
}
