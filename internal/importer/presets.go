package importer

import "strings"

// Preset is a known bank export layout: a name plus a ready-made mapping.
type Preset struct {
	Name    string
	Mapping Mapping
}

// Registry holds named mapping presets.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry creates an empty preset registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[string]Preset)}
}

// Register adds a preset. Panics on duplicate name.
func (r *Registry) Register(p Preset) {
	key := strings.ToLower(p.Name)
	if _, ok := r.presets[key]; ok {
		panic("duplicate import preset: " + key)
	}
	r.presets[key] = p
}

// Get returns the preset for name and whether it exists.
func (r *Registry) Get(name string) (Preset, bool) {
	p, ok := r.presets[strings.ToLower(name)]
	return p, ok
}

// Names returns the registered preset names.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p.Name)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in presets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Preset{
		Name: "chase",
		// Chase checking exports: Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
		Mapping: Mapping{
			Date:        "Posting Date",
			Description: "Description",
			Amount:      "Amount",
		},
	})
	return r
}
