package assetc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfw/assetc/copro"
	"github.com/emberfw/assetc/dolphin"
	"github.com/emberfw/assetc/manifest"
)

func TestUpdateManifest(t *testing.T) {
	dir := t.TempDir()
	writeText(t, filepath.Join(dir, "hello.txt"), "hello")

	a := New(nil)
	file := filepath.Join(dir, manifest.Filename)

	require.NoError(t, a.UpdateManifest(dir))
	first, err := os.ReadFile(file)
	require.NoError(t, err)

	// An unchanged tree keeps the manifest byte for byte, timestamp
	// included.
	require.NoError(t, a.UpdateManifest(dir))
	second, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	writeText(t, filepath.Join(dir, "extra.txt"), "more")
	require.NoError(t, a.UpdateManifest(dir))

	m, err := manifest.Load(file)
	require.NoError(t, err)
	paths := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"extra.txt", "hello.txt"}, paths)
}

func TestPackDolphin(t *testing.T) {
	input := t.TempDir()
	anim := filepath.Join(input, "waves")
	require.NoError(t, os.Mkdir(anim, 0o755))
	writeText(t, filepath.Join(anim, "frame_rate"), "4")
	writePNG(t, filepath.Join(anim, "frame_0.png"), 8, 4, func(x, y int) bool { return y%2 == 0 })

	t.Run("external", func(t *testing.T) {
		output := t.TempDir()
		archive := filepath.Join(t.TempDir(), "resources.tgz")
		require.NoError(t, New(nil).PackDolphin(input, output, "", archive))

		man, err := os.ReadFile(filepath.Join(output, dolphin.ManifestFilename))
		require.NoError(t, err)
		assert.Equal(t, "V:1\nA:waves:8x4:4:1\n", string(man))

		_, err = os.Stat(filepath.Join(output, "waves", "frame_0.bm"))
		assert.NoError(t, err)
		_, err = os.Stat(archive)
		assert.NoError(t, err)
	})

	t.Run("internal", func(t *testing.T) {
		output := t.TempDir()
		require.NoError(t, New(nil).PackDolphin(input, output, "assets_dolphin_internal", ""))

		src, err := os.ReadFile(filepath.Join(output, "assets_dolphin_internal.c"))
		require.NoError(t, err)
		assert.Contains(t, string(src), "const Icon A_waves = ")
	})
}

func TestBundleCopro(t *testing.T) {
	cube := t.TempDir()
	fw := filepath.Join(cube, "firmware", "stm32wb5x")
	require.NoError(t, os.MkdirAll(fw, 0o755))
	writeText(t, filepath.Join(fw, "fus.bin"), "fus image")
	writeText(t, filepath.Join(fw, "stack.bin"), "ble stack image")
	writeText(t, filepath.Join(cube, copro.CubeFilename), `{
  "version": "1.17.3",
  "fus": {"file": "fus.bin", "version": "1.2.0", "address": "0x080ec000"},
  "radio": {"file": "stack.bin", "version": "1.17.3", "address": "0x080dc000"}
}`)

	output := t.TempDir()
	require.NoError(t, New(nil).BundleCopro(cube, output, "stm32wb5x"))

	for _, name := range []string{"fus.bin", "stack.bin", copro.ManifestFilename} {
		_, err := os.Stat(filepath.Join(output, name))
		assert.NoError(t, err, name)
	}
}
