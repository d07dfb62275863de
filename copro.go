package assetc

import (
	"github.com/emberfw/assetc/copro"
)

// BundleCopro assembles the coprocessor firmware bundle for mcu from
// the Cube repository under cubeDir into outputDir.
func (a *AssetC) BundleCopro(cubeDir, outputDir, mcu string) error {
	c := copro.New(mcu, a.logger.Named("copro"))
	if err := c.LoadCubeInfo(cubeDir); err != nil {
		return err
	}
	return c.Bundle(outputDir)
}
