/*
Package copro bundles the coprocessor firmware binaries shipped beside
the main firmware image.

The Cube directory carries a copro.json describing the wireless
firmware package it was cut from; the binaries themselves live under
firmware/<mcu>/ inside the same tree. Bundling copies the FUS and radio
stack binaries into the output directory and writes a Manifest.json
recording the version, size and SHA-256 of each so the updater can
verify what it flashes.
*/
package copro

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

const (
	// CubeFilename is the metadata file expected in the Cube directory.
	CubeFilename = "copro.json"

	// ManifestFilename is written into the output directory.
	ManifestFilename = "Manifest.json"

	// ManifestVersion is the current output manifest format version.
	ManifestVersion = 1
)

// Binary describes one firmware binary inside the Cube tree. File is
// relative to the MCU directory.
type Binary struct {
	File    string `json:"file"`
	Version string `json:"version"`
	Address string `json:"address"`
}

// CubeInfo mirrors copro.json.
type CubeInfo struct {
	Version string `json:"version"`
	FUS     Binary `json:"fus"`
	Radio   Binary `json:"radio"`
}

// Entry is one bundled binary in the output manifest.
type Entry struct {
	Filename string `json:"filename"`
	Version  string `json:"version"`
	Address  string `json:"address"`
	Size     int64  `json:"size"`
	SHA256   string `json:"sha256"`
}

// Manifest is the generated Manifest.json.
type Manifest struct {
	Version int    `json:"manifest_version"`
	Cube    string `json:"cube_version"`
	FUS     Entry  `json:"fus"`
	Radio   Entry  `json:"radio"`
}

// Copro gathers binaries for one MCU series.
type Copro struct {
	mcu    string
	cube   string
	info   *CubeInfo
	logger hclog.Logger
}

// New returns a bundler for the given MCU series.
func New(mcu string, logger hclog.Logger) *Copro {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Copro{mcu: mcu, logger: logger}
}

// LoadCubeInfo reads copro.json from the Cube directory.
func (c *Copro) LoadCubeInfo(cubeDir string) error {
	b, err := os.ReadFile(filepath.Join(cubeDir, CubeFilename))
	if err != nil {
		return err
	}
	info := &CubeInfo{}
	if err := json.Unmarshal(b, info); err != nil {
		return fmt.Errorf("copro: %s: %w", CubeFilename, err)
	}
	if info.FUS.File == "" || info.Radio.File == "" {
		return fmt.Errorf("copro: %s: missing binary records", CubeFilename)
	}
	c.cube = cubeDir
	c.info = info
	return nil
}

func (c *Copro) copyBinary(bin Binary, outputDir string) (Entry, error) {
	src := filepath.Join(c.cube, "firmware", c.mcu, filepath.FromSlash(bin.File))
	in, err := os.Open(src)
	if err != nil {
		return Entry{}, err
	}
	defer in.Close()

	name := filepath.Base(filepath.FromSlash(bin.File))
	out, err := os.Create(filepath.Join(outputDir, name))
	if err != nil {
		return Entry{}, err
	}
	defer out.Close()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Filename: name,
		Version:  bin.Version,
		Address:  bin.Address,
		Size:     n,
		SHA256:   hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Bundle copies the binaries into outputDir and writes Manifest.json.
func (c *Copro) Bundle(outputDir string) error {
	if c.info == nil {
		return errors.New("copro: cube info not loaded")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	m := Manifest{Version: ManifestVersion, Cube: c.info.Version}

	var err error
	c.logger.Debug("copying FUS", "file", c.info.FUS.File)
	if m.FUS, err = c.copyBinary(c.info.FUS, outputDir); err != nil {
		return err
	}
	c.logger.Debug("copying radio stack", "file", c.info.Radio.File)
	if m.Radio, err = c.copyBinary(c.info.Radio, outputDir); err != nil {
		return err
	}

	b, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, ManifestFilename), append(b, '\n'), 0o644)
}
