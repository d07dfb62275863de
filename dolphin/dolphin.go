/*
Package dolphin packs the dolphin level resources. Each animation
bundle is a directory holding a frame_rate file and its frame images,
plus an optional meta file the firmware reads as is. Bundles either
ship as external files for the resource SD card image or compile into
the firmware as C arrays.
*/
package dolphin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/emberfw/assetc/icon"
	"github.com/emberfw/assetc/xbm"
)

const (
	// ManifestFilename is written at the output root in external mode.
	ManifestFilename = "manifest.txt"

	// ManifestVersion is the current manifest format version.
	ManifestVersion = 1

	// MetaFilename is copied through beside the packed frames.
	MetaFilename = "meta"

	frameRateFilename = "frame_rate"
)

// Extractor produces the packed monochrome bitmap for a source image.
type Extractor interface {
	Extract(ctx context.Context, path string) (*xbm.Bitmap, error)
}

// Bundle is one loaded animation directory.
type Bundle struct {
	Name          string
	Dir           string
	Width, Height int
	FrameRate     int
	Frames        []*icon.Frame
	Meta          []byte
}

// Dolphin loads and packs animation bundles.
type Dolphin struct {
	extractor  Extractor
	compressor icon.Compressor
	logger     hclog.Logger

	bundles []*Bundle
}

// New returns a packer using the given collaborators.
func New(extractor Extractor, compressor icon.Compressor, logger hclog.Logger) *Dolphin {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dolphin{
		extractor:  extractor,
		compressor: compressor,
		logger:     logger,
	}
}

// Bundles returns the loaded bundles in load order.
func (d *Dolphin) Bundles() []*Bundle {
	return d.bundles
}

func (d *Dolphin) loadBundle(ctx context.Context, dir string) (*Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	b := &Bundle{Name: filepath.Base(dir), Dir: dir}
	for _, name := range files {
		path := filepath.Join(dir, name)
		switch {
		case name == frameRateFilename:
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			rate, err := strconv.Atoi(strings.TrimSpace(string(raw)))
			if err != nil || rate <= 0 {
				return nil, fmt.Errorf("%s: invalid frame rate", path)
			}
			b.FrameRate = rate
		case name == MetaFilename:
			if b.Meta, err = os.ReadFile(path); err != nil {
				return nil, err
			}
		case strings.EqualFold(filepath.Ext(name), ".png"):
			d.logger.Debug("processing frame", "path", path)
			bm, err := d.extractor.Extract(ctx, path)
			if err != nil {
				return nil, err
			}
			if len(b.Frames) == 0 {
				b.Width, b.Height = bm.Width, bm.Height
			} else if bm.Width != b.Width || bm.Height != b.Height {
				return nil, fmt.Errorf("%s: frame is %dx%d, bundle is %dx%d",
					path, bm.Width, bm.Height, b.Width, b.Height)
			}
			f, err := icon.EncodeFrame(ctx, bm.Pix, d.compressor)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			b.Frames = append(b.Frames, f)
		}
	}
	if b.FrameRate == 0 {
		return nil, fmt.Errorf("%s: missing %s", dir, frameRateFilename)
	}
	if len(b.Frames) == 0 {
		return nil, fmt.Errorf("%s: bundle has no frames", dir)
	}
	return b, nil
}

// Load reads every animation bundle directly under input, in sorted
// name order.
func (d *Dolphin) Load(ctx context.Context, input string) error {
	entries, err := os.ReadDir(input)
	if err != nil {
		return err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)

	for _, name := range dirs {
		b, err := d.loadBundle(ctx, filepath.Join(input, name))
		if err != nil {
			return err
		}
		d.logger.Debug("loaded bundle", "name", b.Name, "frames", len(b.Frames))
		d.bundles = append(d.bundles, b)
	}
	if len(d.bundles) == 0 {
		return fmt.Errorf("dolphin: no bundles under %s", input)
	}
	return nil
}
