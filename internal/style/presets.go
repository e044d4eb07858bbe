package style

import (
	"fmt"
	"sort"
)

// Built-in preset names.
const (
	None = "none"
	Toon = "toon"
	Soft = "soft"
	Noir = "noir"
)

var builtins = map[string]Filter{
	Toon: {{Contrast, 1.3}, {Saturate, 1.4}},
	Soft: {{Brightness, 1.1}, {Saturate, 0.9}},
	Noir: {{Grayscale, 1}, {Contrast, 1.4}},
}

// Lookup returns the built-in filter for name. Unrecognized names map to the
// identity filter.
func Lookup(name string) Filter {
	return builtins[name]
}

// Registry resolves style names against the built-ins plus any custom presets.
// The zero value resolves built-ins only.
type Registry struct {
	custom map[string]Filter
}

// NewRegistry parses custom presets given in CSS filter syntax. Custom names
// may shadow built-ins.
func NewRegistry(custom map[string]string) (*Registry, error) {
	r := &Registry{custom: make(map[string]Filter, len(custom))}
	for name, spec := range custom {
		f, err := Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("style %q: %w", name, err)
		}
		r.custom[name] = f
	}
	return r, nil
}

// Lookup returns the filter for name, falling back to the identity filter.
func (r *Registry) Lookup(name string) Filter {
	if r != nil {
		if f, ok := r.custom[name]; ok {
			return f
		}
	}
	return Lookup(name)
}

// Names lists every known style, "none" first and the rest sorted.
func (r *Registry) Names() []string {
	seen := map[string]bool{None: true}
	var names []string
	for name := range builtins {
		seen[name] = true
		names = append(names, name)
	}
	if r != nil {
		for name := range r.custom {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return append([]string{None}, names...)
}

// Next returns the style after current in Names order, wrapping around.
// Unknown names restart at the first style.
func (r *Registry) Next(current string) string {
	names := r.Names()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
