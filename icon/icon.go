/*
Package icon implements the descriptor model behind the generated icon
sources compiled into the firmware GUI.

Every icon is a fixed geometry plus one or more encoded frames. A frame
payload starts with a format flag byte: after 0x00 the packed bitmap
bytes follow unchanged, after 0x01 a two byte little endian length and
the heatshrink compressed bitmap follow. Static icons carry a single
frame and a frame rate of zero; animations carry the frame rate read
from their source directory.
*/
package icon

import (
	"path/filepath"
	"strings"
)

// Frame format flags, the first byte of every frame payload.
const (
	frameRaw        = 0x00
	frameCompressed = 0x01
)

// Frame is one encoded bitmap frame.
type Frame struct {
	Compressed bool
	Data       []byte
}

// Bytes returns the frame as emitted, flag byte first.
func (f *Frame) Bytes() []byte {
	flag := byte(frameRaw)
	if f.Compressed {
		flag = frameCompressed
	}
	return append([]byte{flag}, f.Data...)
}

// Icon is one registry entry: a name, its geometry and its encoded
// frames in display order.
type Icon struct {
	Name          string
	Width, Height int
	FrameRate     int
	Frames        []*Frame
}

func (i *Icon) symbol() string {
	return "_" + i.Name
}

// StaticName derives the registry name of a single image icon from its
// filename: I_ plus the filename without its extension, interior dots
// and hyphens folded to underscores.
func StaticName(filename string) string {
	parts := strings.Split(filename, ".")
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	return "I_" + strings.ReplaceAll(strings.Join(parts, "_"), "-", "_")
}

// AnimationName derives the registry name of an animation from its
// source directory: A_ plus the directory basename, hyphens folded to
// underscores.
func AnimationName(dir string) string {
	return "A_" + strings.ReplaceAll(filepath.Base(dir), "-", "_")
}
