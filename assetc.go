/*
Package assetc compiles a tree of source images into the asset
artifacts shipped with the firmware: generated icon sources, resource
manifests, coprocessor firmware bundles and dolphin resource packs.
*/
package assetc

import (
	"github.com/hashicorp/go-hclog"

	"github.com/emberfw/assetc/icon"
)

// AssetC is the compiler handle. The collaborator fields may be
// replaced before use; New fills in the embedded implementations.
type AssetC struct {
	Extractor  Extractor
	Compressor icon.Compressor
	Workers    int

	logger hclog.Logger
}

// New returns a compiler wired to the embedded extractor and
// compressor.
func New(logger hclog.Logger) *AssetC {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &AssetC{
		Extractor:  ImageExtractor{},
		Compressor: EmbeddedCompressor{},
		Workers:    defaultWorkers,
		logger:     logger,
	}
}
