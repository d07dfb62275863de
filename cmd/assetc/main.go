package main

import (
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	"github.com/emberfw/assetc"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) hclog.Logger {
	level := hclog.LevelFromString(c.String("log-level"))
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	if c.Bool("verbose") {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "assetc",
		Level: level,
	})
}

// newAssetC wires the collaborators from the global flags. Without an
// external converter the embedded rasterizer runs, quantizing first
// when the command deals in shaded artwork.
func newAssetC(c *cli.Context, quantize bool) *assetc.AssetC {
	a := assetc.New(newLogger(c))
	a.Extractor = assetc.ImageExtractor{Quantize: quantize}
	if tool := c.String("converter"); tool != "" {
		a.Extractor = assetc.ConvertExtractor{Tool: tool}
	}
	if tool := c.String("heatshrink"); tool != "" {
		a.Compressor = assetc.HeatshrinkTool{Tool: tool}
	}
	return a
}

func main() {
	app := cli.NewApp()

	app.Name = "assetc"
	app.Usage = "firmware asset compiler"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"ASSETC_LOG_LEVEL"},
			Value:   "info",
			Usage:   "log level (trace, debug, info, warn, error)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:  "converter",
			Usage: "use an external ImageMagick style converter",
		},
		&cli.StringFlag{
			Name:  "heatshrink",
			Usage: "use an external heatshrink encoder",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "icons",
			Usage:     "Compile an icon tree into generated C sources",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Usage: "number of concurrent workers",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a := newAssetC(c, false)
				if n := c.Int("workers"); n > 0 {
					a.Workers = n
				}

				if err := a.CompileIcons(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "manifest",
			Usage:     "Rebuild the resource Manifest for a directory tree",
			ArgsUsage: "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a := assetc.New(newLogger(c))
				if err := a.UpdateManifest(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "copro",
			Usage:     "Bundle coprocessor firmware from a Cube directory",
			ArgsUsage: "CUBE_DIR OUTPUT_DIR MCU",
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a := assetc.New(newLogger(c))
				if err := a.BundleCopro(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "dolphin",
			Usage:     "Pack dolphin animation bundles",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "symbol-name",
					Aliases: []string{"s"},
					Usage:   "emit C sources under this symbol instead of loose resources",
				},
				&cli.StringFlag{
					Name:  "archive",
					Usage: "also write a tar archive of the packed resources to this path",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a := newAssetC(c, true)
				if err := a.PackDolphin(c.Args().Get(0), c.Args().Get(1), c.String("symbol-name"), c.String("archive")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
