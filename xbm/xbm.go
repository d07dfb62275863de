/*
Package xbm implements the textual monochrome bitmap format exchanged
with the external image converter.

A bitmap is two C preprocessor lines defining the width and height in
pixels followed by a brace delimited, comma separated array of hex
bytes. Rows are packed least significant bit first and each row is
padded to a byte boundary, so the array holds ceil(width/8)*height
bytes. This is also the packed layout the firmware blits, so decoded
bytes flow to the frame encoder unchanged.
*/
package xbm

import (
	"image"
	"image/color"
)

// Bitmap is a packed monochrome pixmap.
type Bitmap struct {
	Width, Height int
	Pix           []byte
}

// Stride returns the number of packed bytes per row.
func (b *Bitmap) Stride() int {
	return (b.Width + 7) / 8
}

// ink reports whether a pixel is set. Mostly transparent pixels are
// background, anything darker than 50% gray is ink.
func ink(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	luma := (299*r + 587*g + 114*b) / 1000
	return luma < 0x8000
}

// FromImage rasterizes m into a packed bitmap using the same threshold
// rule as the external converter.
func FromImage(m image.Image) *Bitmap {
	bounds := m.Bounds()
	b := &Bitmap{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	b.Pix = make([]byte, b.Stride()*b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if ink(m.At(bounds.Min.X+x, bounds.Min.Y+y)) {
				b.Pix[y*b.Stride()+x>>3] |= 1 << (uint(x) & 7)
			}
		}
	}
	return b
}

// Image returns the bitmap as a grayscale image, ink black on white.
func (b *Bitmap) Image() image.Image {
	m := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Pix[y*b.Stride()+x>>3]>>(uint(x)&7)&1 == 0 {
				m.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return m
}
