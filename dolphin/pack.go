package dolphin

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emberfw/assetc/icon"
)

// PackExternal writes every bundle as encoded .bm frames plus its meta
// file, and a manifest.txt at the output root describing each bundle.
func (d *Dolphin) PackExternal(output string) error {
	man := new(bytes.Buffer)
	fmt.Fprintf(man, "V:%d\n", ManifestVersion)

	for _, b := range d.bundles {
		dir := filepath.Join(output, b.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for i, f := range b.Frames {
			name := filepath.Join(dir, fmt.Sprintf("frame_%d.bm", i))
			if err := os.WriteFile(name, f.Bytes(), 0o644); err != nil {
				return err
			}
		}
		if b.Meta != nil {
			if err := os.WriteFile(filepath.Join(dir, MetaFilename), b.Meta, 0o644); err != nil {
				return err
			}
		}
		fmt.Fprintf(man, "A:%s:%dx%d:%d:%d\n", b.Name, b.Width, b.Height, b.FrameRate, len(b.Frames))
	}

	return os.WriteFile(filepath.Join(output, ManifestFilename), man.Bytes(), 0o644)
}

// PackInternal compiles the bundles into C arrays named after symbol,
// writing <symbol>.c and <symbol>.h into output.
func (d *Dolphin) PackInternal(output, symbol string) error {
	registry := icon.NewRegistry()
	for _, b := range d.bundles {
		ic := &icon.Icon{
			Name:      icon.AnimationName(b.Dir),
			Width:     b.Width,
			Height:    b.Height,
			FrameRate: b.FrameRate,
			Frames:    b.Frames,
		}
		if err := registry.Add(ic, b.Dir); err != nil {
			return err
		}
	}

	src, err := registry.MarshalSource(symbol + ".h")
	if err != nil {
		return err
	}
	hdr, err := registry.MarshalHeader()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(output, symbol+".c"), src, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(output, symbol+".h"), hdr, 0o644)
}
