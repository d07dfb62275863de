package assetc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/emberfw/assetc/xbm"
)

// Extractor produces the packed monochrome bitmap for a source image.
type Extractor interface {
	Extract(ctx context.Context, path string) (*xbm.Bitmap, error)
}

// ImageExtractor is the embedded extractor. It decodes the PNG itself
// and rasterizes with the same threshold rule as the external
// converter. With Quantize set, sources carrying more than two colors
// are first reduced to a two color palette and the darker color is
// taken as ink; dolphin frames arrive from artists in shades, icon
// sources must already be bilevel.
type ImageExtractor struct {
	Quantize bool
}

func (e ImageExtractor) Extract(_ context.Context, path string) (*xbm.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if e.Quantize && !bilevel(m) {
		return quantized(m), nil
	}
	return xbm.FromImage(m), nil
}

func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (299*r + 587*g + 114*b) / 1000
}

// bilevel reports whether m holds at most two distinct colors.
func bilevel(m image.Image) bool {
	bounds := m.Bounds()
	seen := make(map[color.Color]struct{}, 3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			seen[m.At(x, y)] = struct{}{}
			if len(seen) > 2 {
				return false
			}
		}
	}
	return true
}

func quantized(m image.Image) *xbm.Bitmap {
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 2), m)
	if len(pal) < 2 {
		return xbm.FromImage(m)
	}

	ink := pal[0]
	if luma(pal[1]) < luma(ink) {
		ink = pal[1]
	}

	bounds := m.Bounds()
	b := &xbm.Bitmap{Width: bounds.Dx(), Height: bounds.Dy()}
	b.Pix = make([]byte, b.Stride()*b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if pal.Convert(m.At(bounds.Min.X+x, bounds.Min.Y+y)) == ink {
				b.Pix[y*b.Stride()+x>>3] |= 1 << (uint(x) & 7)
			}
		}
	}
	return b
}

// ConvertExtractor shells out to an ImageMagick style converter and
// parses the XBM it writes to stdout.
type ConvertExtractor struct {
	Tool string
}

func (e ConvertExtractor) Extract(ctx context.Context, path string) (*xbm.Bitmap, error) {
	out, err := exec.CommandContext(ctx, e.Tool, path, "xbm:-").Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", e.Tool, path, err)
	}
	b, err := xbm.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
