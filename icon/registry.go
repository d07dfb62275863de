package icon

import (
	"bytes"
	"fmt"
)

// Registry is the ordered icon table. Order is the discovery order of
// the asset tree walk, which keeps the generated artifacts reproducible.
type Registry struct {
	icons []*Icon
	seen  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]string)}
}

// Add appends an icon. Two sources deriving the same name would fight
// over one symbol, so a duplicate is an error naming both.
func (r *Registry) Add(ic *Icon, source string) error {
	if prev, ok := r.seen[ic.Name]; ok {
		return fmt.Errorf("icon: name %s derived from both %s and %s", ic.Name, prev, source)
	}
	r.seen[ic.Name] = source
	r.icons = append(r.icons, ic)
	return nil
}

// Len returns the number of registered icons.
func (r *Registry) Len() int {
	return len(r.icons)
}

// Icons returns the registered icons in registration order.
func (r *Registry) Icons() []*Icon {
	return r.icons
}

func writeHex(b *bytes.Buffer, p []byte) {
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "0x%02x", v)
	}
}

// MarshalSource renders the implementation artifact: the frame arrays
// and frame table of every icon, then the descriptor table. include
// names the matching declarations artifact.
func (r *Registry) MarshalSource(include string) ([]byte, error) {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "#include \"%s\"\n\n", include)
	b.WriteString("#include <gui/icon_i.h>\n\n")

	for _, ic := range r.icons {
		if len(ic.Frames) == 0 {
			return nil, fmt.Errorf("icon: %s has no frames", ic.Name)
		}
		for i, f := range ic.Frames {
			fmt.Fprintf(b, "const uint8_t %s_%d[] = {", ic.symbol(), i)
			writeHex(b, f.Bytes())
			b.WriteString("};\n")
		}
		fmt.Fprintf(b, "const uint8_t* const %s[] = {", ic.symbol())
		for i := range ic.Frames {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%s_%d", ic.symbol(), i)
		}
		b.WriteString("};\n\n")
	}

	for _, ic := range r.icons {
		fmt.Fprintf(b, "const Icon %s = {.width=%d,.height=%d,.frame_count=%d,.frame_rate=%d,.frames=%s};\n",
			ic.Name, ic.Width, ic.Height, len(ic.Frames), ic.FrameRate, ic.symbol())
	}
	b.WriteString("\n")

	return b.Bytes(), nil
}

// MarshalHeader renders the declarations artifact.
func (r *Registry) MarshalHeader() ([]byte, error) {
	b := new(bytes.Buffer)
	b.WriteString("#pragma once\n#include <gui/icon.h>\n\n")
	for _, ic := range r.icons {
		fmt.Fprintf(b, "extern const Icon %s;\n", ic.Name)
	}
	return b.Bytes(), nil
}
