package assetc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/emberfw/assetc/icon"
)

const (
	// frameRateFilename marks a directory as an animation.
	frameRateFilename = "frame_rate"

	sourceFilename = "assets_icons.c"
	headerFilename = "assets_icons.h"

	defaultWorkers = 10
)

// groupKind tags how a directory of images becomes icons.
type groupKind int

const (
	// groupStatic emits one single frame icon per image.
	groupStatic groupKind = iota
	// groupAnimation emits one icon from all images in the directory.
	groupAnimation
)

func (k groupKind) String() string {
	if k == groupAnimation {
		return "animation"
	}
	return "static"
}

// assetGroup is one directory's worth of icon sources.
type assetGroup struct {
	dir       string
	kind      groupKind
	frameRate int
	images    []string
}

// compiled pairs an icon with the source it came from so registry
// collisions can name both offenders.
type compiled struct {
	icon   *icon.Icon
	source string
}

func isSupported(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".png")
}

func readFrameRate(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	rate, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%s: frame rate must be positive, got %d", path, rate)
	}
	return rate, nil
}

func (a *AssetC) classify(dir string, files []string) (*assetGroup, error) {
	g := &assetGroup{dir: dir, kind: groupStatic}
	for _, name := range files {
		if name == frameRateFilename {
			rate, err := readFrameRate(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			g.kind = groupAnimation
			g.frameRate = rate
			continue
		}
		if isSupported(name) {
			g.images = append(g.images, name)
		}
	}
	a.logger.Debug("classified directory", "dir", dir, "kind", g.kind, "images", len(g.images))
	return g, nil
}

// collectGroups walks the tree depth first, a directory's own files
// before its subdirectories, names sorted at every level, so the group
// list comes out in the same order on every run.
func (a *AssetC) collectGroups(root string) ([]*assetGroup, error) {
	var groups []*assetGroup
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		var files, dirs []string
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e.Name())
			} else {
				files = append(files, e.Name())
			}
		}
		sort.Strings(files)
		sort.Strings(dirs)

		if len(files) > 0 {
			g, err := a.classify(dir, files)
			if err != nil {
				return err
			}
			if g.kind == groupAnimation || len(g.images) > 0 {
				groups = append(groups, g)
			}
		}
		for _, d := range dirs {
			if err := walk(filepath.Join(dir, d)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return groups, nil
}

func (a *AssetC) compileStatic(ctx context.Context, g *assetGroup) ([]compiled, error) {
	out := make([]compiled, 0, len(g.images))
	for _, name := range g.images {
		path := filepath.Join(g.dir, name)
		a.logger.Debug("processing icon", "path", path)
		b, err := a.Extractor.Extract(ctx, path)
		if err != nil {
			return nil, err
		}
		f, err := icon.EncodeFrame(ctx, b.Pix, a.Compressor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, compiled{
			icon: &icon.Icon{
				Name:   icon.StaticName(name),
				Width:  b.Width,
				Height: b.Height,
				Frames: []*icon.Frame{f},
			},
			source: path,
		})
	}
	return out, nil
}

func (a *AssetC) compileAnimation(ctx context.Context, g *assetGroup) ([]compiled, error) {
	if len(g.images) == 0 {
		return nil, fmt.Errorf("%s: animation has no frames", g.dir)
	}
	ic := &icon.Icon{
		Name:      icon.AnimationName(g.dir),
		FrameRate: g.frameRate,
	}
	for i, name := range g.images {
		path := filepath.Join(g.dir, name)
		a.logger.Debug("processing animation frame", "path", path)
		b, err := a.Extractor.Extract(ctx, path)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			ic.Width, ic.Height = b.Width, b.Height
		} else if b.Width != ic.Width || b.Height != ic.Height {
			return nil, fmt.Errorf("%s: frame is %dx%d, animation is %dx%d",
				path, b.Width, b.Height, ic.Width, ic.Height)
		}
		f, err := icon.EncodeFrame(ctx, b.Pix, a.Compressor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ic.Frames = append(ic.Frames, f)
	}
	return []compiled{{icon: ic, source: g.dir}}, nil
}

func (a *AssetC) compileGroup(ctx context.Context, g *assetGroup) ([]compiled, error) {
	if g.kind == groupAnimation {
		return a.compileAnimation(ctx, g)
	}
	return a.compileStatic(ctx, g)
}

func (a *AssetC) findGroups(ctx context.Context, groups []*assetGroup) (<-chan int, <-chan error) {
	out := make(chan int)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i := range groups {
			select {
			case out <- i:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

func (a *AssetC) groupWorker(ctx context.Context, groups []*assetGroup, results [][]compiled, in <-chan int) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for i := range in {
			icons, err := a.compileGroup(ctx, groups[i])
			if err != nil {
				errc <- err
				return
			}
			results[i] = icons
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// CompileIcons walks the asset tree under input and writes the
// generated icon sources into output. Groups compile concurrently but
// assembly is serialized in discovery order, so the artifacts are byte
// identical run to run.
func (a *AssetC) CompileIcons(input, output string) error {
	root, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	groups, err := a.collectGroups(root)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make([][]compiled, len(groups))

	in, errc := a.findGroups(ctx, groups)
	errcList := []<-chan error{errc}

	workers := a.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	for i := 0; i < workers; i++ {
		errcList = append(errcList, a.groupWorker(ctx, groups, results, in))
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	registry := icon.NewRegistry()
	for _, icons := range results {
		for _, c := range icons {
			if err := registry.Add(c.icon, c.source); err != nil {
				return err
			}
		}
	}

	a.logger.Debug("compiled icons", "count", registry.Len())

	src, err := registry.MarshalSource(headerFilename)
	if err != nil {
		return err
	}
	hdr, err := registry.MarshalHeader()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(output, sourceFilename), src, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(output, headerFilename), hdr, 0o644)
}
