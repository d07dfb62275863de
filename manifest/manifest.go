/*
Package manifest implements the resource Manifest file written beside
the assets shipped on the SD card.

A Manifest is a line oriented text file. The first record carries the
format version, the second the creation time, then one record per
directory and per file:

	V:<version>
	T:<unix timestamp>
	D:<relative path>
	F:<xxhash64 hex>:<size>:<relative path>

Paths are slash separated and relative to the manifest root. Comparing
two manifests ignores the timestamp, so an unchanged tree never churns
the file.
*/
package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// Filename is the expected filename used when writing to disk.
	Filename = "Manifest"

	// Version is the current manifest format version.
	Version = 1
)

// FileEntry is one F record.
type FileEntry struct {
	Path string
	Size int64
	Hash uint64
}

// Manifest holds the records of one asset tree.
type Manifest struct {
	Version   int
	Timestamp int64
	Dirs      []string
	Files     []FileEntry
}

// New returns an empty manifest stamped with the current time.
func New() *Manifest {
	return &Manifest{
		Version:   Version,
		Timestamp: time.Now().Unix(),
	}
}

func hashFile(file string) (uint64, int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, 0, err
	}
	return h.Sum64(), n, nil
}

// Create fills the manifest from the tree under root, a directory's
// files before its subdirectories, names sorted at every level. Hidden
// entries and the Manifest file itself are skipped.
func (m *Manifest) Create(root string) error {
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		var files, dirs []string
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			if e.IsDir() {
				dirs = append(dirs, name)
				continue
			}
			if rel == "" && name == Filename {
				continue
			}
			files = append(files, name)
		}
		sort.Strings(files)
		sort.Strings(dirs)

		for _, name := range files {
			hash, size, err := hashFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			m.Files = append(m.Files, FileEntry{
				Path: path.Join(rel, name),
				Size: size,
				Hash: hash,
			})
		}
		for _, name := range dirs {
			m.Dirs = append(m.Dirs, path.Join(rel, name))
			if err := walk(filepath.Join(dir, name), path.Join(rel, name)); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root, "")
}

// Save writes the manifest to file.
func (m *Manifest) Save(file string) error {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "V:%d\n", m.Version)
	fmt.Fprintf(b, "T:%d\n", m.Timestamp)
	for _, d := range m.Dirs {
		fmt.Fprintf(b, "D:%s\n", d)
	}
	for _, f := range m.Files {
		fmt.Fprintf(b, "F:%016x:%d:%s\n", f.Hash, f.Size, f.Path)
	}
	return os.WriteFile(file, b.Bytes(), 0o644)
}

// Load reads a manifest previously written by Save.
func Load(file string) (*Manifest, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Manifest{}
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("manifest: malformed record %q", line)
		}
		switch key {
		case "V":
			if m.Version, err = strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("manifest: bad version record: %w", err)
			}
		case "T":
			if m.Timestamp, err = strconv.ParseInt(value, 10, 64); err != nil {
				return nil, fmt.Errorf("manifest: bad timestamp record: %w", err)
			}
		case "D":
			m.Dirs = append(m.Dirs, value)
		case "F":
			parts := strings.SplitN(value, ":", 3)
			if len(parts) != 3 {
				return nil, fmt.Errorf("manifest: malformed file record %q", line)
			}
			hash, err := strconv.ParseUint(parts[0], 16, 64)
			if err != nil {
				return nil, fmt.Errorf("manifest: bad hash: %w", err)
			}
			size, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("manifest: bad size: %w", err)
			}
			m.Files = append(m.Files, FileEntry{Path: parts[2], Size: size, Hash: hash})
		default:
			return nil, fmt.Errorf("manifest: unknown record type %q", key)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Compare reports the paths only in old, changed between the two, and
// only in new. Directories compare by presence, files also by size and
// hash. Timestamps are not compared.
func Compare(old, new *Manifest) (onlyInOld, changed, onlyInNew []string) {
	oldFiles := make(map[string]FileEntry, len(old.Files))
	for _, f := range old.Files {
		oldFiles[f.Path] = f
	}
	newFiles := make(map[string]FileEntry, len(new.Files))
	for _, f := range new.Files {
		newFiles[f.Path] = f
	}

	for _, f := range old.Files {
		n, ok := newFiles[f.Path]
		switch {
		case !ok:
			onlyInOld = append(onlyInOld, f.Path)
		case n.Hash != f.Hash || n.Size != f.Size:
			changed = append(changed, f.Path)
		}
	}
	for _, f := range new.Files {
		if _, ok := oldFiles[f.Path]; !ok {
			onlyInNew = append(onlyInNew, f.Path)
		}
	}

	oldDirs := make(map[string]struct{}, len(old.Dirs))
	for _, d := range old.Dirs {
		oldDirs[d] = struct{}{}
	}
	newDirs := make(map[string]struct{}, len(new.Dirs))
	for _, d := range new.Dirs {
		newDirs[d] = struct{}{}
	}

	for _, d := range old.Dirs {
		if _, ok := newDirs[d]; !ok {
			onlyInOld = append(onlyInOld, d)
		}
	}
	for _, d := range new.Dirs {
		if _, ok := oldDirs[d]; !ok {
			onlyInNew = append(onlyInNew, d)
		}
	}

	return onlyInOld, changed, onlyInNew
}
