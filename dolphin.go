package assetc

import (
	"context"

	"github.com/emberfw/assetc/dolphin"
)

// PackDolphin compiles the animation bundles under input into output.
// With symbol set the bundles become generated C sources named after
// it, otherwise loose .bm resources next to a manifest. A non empty
// archive additionally wraps the external layout into a tar file at
// that path, gzip compressed when it ends in .gz or .tgz.
func (a *AssetC) PackDolphin(input, output, symbol, archive string) error {
	ctx := context.Background()

	d := dolphin.New(a.Extractor, a.Compressor, a.logger.Named("dolphin"))
	if err := d.Load(ctx, input); err != nil {
		return err
	}

	if symbol != "" {
		return d.PackInternal(output, symbol)
	}
	if err := d.PackExternal(output); err != nil {
		return err
	}
	if archive != "" {
		return dolphin.Archive(output, archive)
	}
	return nil
}
