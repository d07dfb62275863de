package dolphin

import (
	"archive/tar"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfw/assetc/heatshrink"
	"github.com/emberfw/assetc/xbm"
)

type pngExtractor struct{}

func (pngExtractor) Extract(_ context.Context, path string) (*xbm.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return xbm.FromImage(m), nil
}

type hsCompressor struct{}

func (hsCompressor) Compress(_ context.Context, p []byte) ([]byte, error) {
	return heatshrink.Compress(p), nil
}

func writePNG(t *testing.T, path string, w, h int, fill func(x, y int) bool) {
	t.Helper()
	m := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.Gray{Y: 0xff}
			if fill(x, y) {
				c = color.Gray{}
			}
			m.SetGray(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sourceFixture(t *testing.T) string {
	t.Helper()
	src := t.TempDir()

	blink := filepath.Join(src, "blink")
	require.NoError(t, os.Mkdir(blink, 0o755))
	writeText(t, filepath.Join(blink, "frame_rate"), "2\n")
	writeText(t, filepath.Join(blink, "meta"), "Duration: 10\n")
	writePNG(t, filepath.Join(blink, "frame_0.png"), 8, 8, func(x, y int) bool { return (x+y)%2 == 0 })
	writePNG(t, filepath.Join(blink, "frame_1.png"), 8, 8, func(x, y int) bool { return (x+y)%2 == 1 })

	idle := filepath.Join(src, "idle")
	require.NoError(t, os.Mkdir(idle, 0o755))
	writeText(t, filepath.Join(idle, "frame_rate"), "3")
	writePNG(t, filepath.Join(idle, "frame_0.png"), 8, 8, func(x, y int) bool { return y == 0 })

	writeText(t, filepath.Join(src, "notes.txt"), "not a bundle")
	return src
}

func loadFixture(t *testing.T) *Dolphin {
	t.Helper()
	d := New(pngExtractor{}, hsCompressor{}, nil)
	require.NoError(t, d.Load(context.Background(), sourceFixture(t)))
	return d
}

func TestLoad(t *testing.T) {
	d := loadFixture(t)

	bundles := d.Bundles()
	require.Len(t, bundles, 2)

	blink := bundles[0]
	assert.Equal(t, "blink", blink.Name)
	assert.Equal(t, 8, blink.Width)
	assert.Equal(t, 8, blink.Height)
	assert.Equal(t, 2, blink.FrameRate)
	assert.Len(t, blink.Frames, 2)
	assert.Equal(t, []byte("Duration: 10\n"), blink.Meta)

	idle := bundles[1]
	assert.Equal(t, "idle", idle.Name)
	assert.Equal(t, 3, idle.FrameRate)
	assert.Len(t, idle.Frames, 1)
	assert.Nil(t, idle.Meta)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing frame_rate", func(t *testing.T) {
		src := t.TempDir()
		dir := filepath.Join(src, "broken")
		require.NoError(t, os.Mkdir(dir, 0o755))
		writePNG(t, filepath.Join(dir, "frame_0.png"), 4, 4, func(int, int) bool { return true })

		err := New(pngExtractor{}, hsCompressor{}, nil).Load(context.Background(), src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), frameRateFilename)
	})

	t.Run("no frames", func(t *testing.T) {
		src := t.TempDir()
		dir := filepath.Join(src, "broken")
		require.NoError(t, os.Mkdir(dir, 0o755))
		writeText(t, filepath.Join(dir, "frame_rate"), "2")

		err := New(pngExtractor{}, hsCompressor{}, nil).Load(context.Background(), src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no frames")
	})

	t.Run("bad frame rate", func(t *testing.T) {
		src := t.TempDir()
		dir := filepath.Join(src, "broken")
		require.NoError(t, os.Mkdir(dir, 0o755))
		writeText(t, filepath.Join(dir, "frame_rate"), "0")
		writePNG(t, filepath.Join(dir, "frame_0.png"), 4, 4, func(int, int) bool { return true })

		assert.Error(t, New(pngExtractor{}, hsCompressor{}, nil).Load(context.Background(), src))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		src := t.TempDir()
		dir := filepath.Join(src, "broken")
		require.NoError(t, os.Mkdir(dir, 0o755))
		writeText(t, filepath.Join(dir, "frame_rate"), "2")
		writePNG(t, filepath.Join(dir, "frame_0.png"), 8, 8, func(int, int) bool { return true })
		writePNG(t, filepath.Join(dir, "frame_1.png"), 4, 8, func(int, int) bool { return true })

		err := New(pngExtractor{}, hsCompressor{}, nil).Load(context.Background(), src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "frame_1.png")
	})

	t.Run("empty input", func(t *testing.T) {
		err := New(pngExtractor{}, hsCompressor{}, nil).Load(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no bundles")
	})
}

func TestPackExternal(t *testing.T) {
	d := loadFixture(t)

	out := t.TempDir()
	require.NoError(t, d.PackExternal(out))

	frame, err := os.ReadFile(filepath.Join(out, "blink", "frame_0.bm"))
	require.NoError(t, err)
	assert.Equal(t, d.Bundles()[0].Frames[0].Bytes(), frame)

	meta, err := os.ReadFile(filepath.Join(out, "blink", "meta"))
	require.NoError(t, err)
	assert.Equal(t, "Duration: 10\n", string(meta))

	man, err := os.ReadFile(filepath.Join(out, ManifestFilename))
	require.NoError(t, err)
	assert.Equal(t, "V:1\nA:blink:8x8:2:2\nA:idle:8x8:3:1\n", string(man))

	_, err = os.Stat(filepath.Join(out, "idle", "frame_0.bm"))
	assert.NoError(t, err)
}

func TestPackInternal(t *testing.T) {
	d := loadFixture(t)

	out := t.TempDir()
	require.NoError(t, d.PackInternal(out, "assets_dolphin"))

	src, err := os.ReadFile(filepath.Join(out, "assets_dolphin.c"))
	require.NoError(t, err)
	assert.Contains(t, string(src), `#include "assets_dolphin.h"`)
	assert.Contains(t, string(src), "const uint8_t _A_blink_0[] = {")
	assert.Contains(t, string(src), "const Icon A_blink = {.width=8,.height=8,.frame_count=2,.frame_rate=2,.frames=_A_blink};")

	hdr, err := os.ReadFile(filepath.Join(out, "assets_dolphin.h"))
	require.NoError(t, err)
	assert.Contains(t, string(hdr), "extern const Icon A_blink;")
	assert.Contains(t, string(hdr), "extern const Icon A_idle;")
}

func archiveEntries(t *testing.T, r io.Reader) []string {
	t.Helper()
	tr := tar.NewReader(r)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}

func TestArchive(t *testing.T) {
	d := loadFixture(t)

	out := t.TempDir()
	require.NoError(t, d.PackExternal(out))

	// Written into the tree on purpose; it must exclude itself.
	path := filepath.Join(out, "resources.tar")
	require.NoError(t, Archive(out, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"blink/",
		"blink/frame_0.bm",
		"blink/frame_1.bm",
		"blink/meta",
		"idle/",
		"idle/frame_0.bm",
		"manifest.txt",
	}, archiveEntries(t, f))
}

func TestArchiveDeterministic(t *testing.T) {
	d := loadFixture(t)

	out := t.TempDir()
	require.NoError(t, d.PackExternal(out))

	scratch := t.TempDir()
	first := filepath.Join(scratch, "first.tar")
	second := filepath.Join(scratch, "second.tar")
	require.NoError(t, Archive(out, first))
	require.NoError(t, Archive(out, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestArchiveGzip(t *testing.T) {
	d := loadFixture(t)

	out := t.TempDir()
	require.NoError(t, d.PackExternal(out))

	path := filepath.Join(t.TempDir(), "resources.tgz")
	require.NoError(t, Archive(out, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	names := archiveEntries(t, gz)
	require.NotEmpty(t, names)
	assert.Equal(t, "blink/", names[0])
	assert.Equal(t, "manifest.txt", names[len(names)-1])
}
