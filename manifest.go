package assetc

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/emberfw/assetc/manifest"
)

// UpdateManifest rebuilds the resource Manifest under dir, rewriting
// the file only when the tree no longer matches what it records.
func (a *AssetC) UpdateManifest(dir string) error {
	log := a.logger.Named("manifest")

	fresh := manifest.New()
	if err := fresh.Create(dir); err != nil {
		return err
	}

	file := filepath.Join(dir, manifest.Filename)
	old, err := manifest.Load(file)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("no manifest yet, creating", "file", file)
		return fresh.Save(file)
	}
	if err != nil {
		return err
	}

	onlyInOld, changed, onlyInNew := manifest.Compare(old, fresh)
	for _, p := range onlyInOld {
		log.Info("only in old", "path", p)
	}
	for _, p := range changed {
		log.Info("changed", "path", p)
	}
	for _, p := range onlyInNew {
		log.Info("only in new", "path", p)
	}

	if len(onlyInOld)+len(changed)+len(onlyInNew) == 0 {
		log.Debug("manifest is up to date", "file", file)
		return nil
	}

	log.Warn("tree changed, updating manifest", "file", file)
	return fresh.Save(file)
}
