//go:build !tinygo

package boards

import (
	_ "embed"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"stm32blink/errcode"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Catalog is an ordered set of profiles loaded from YAML.
type Catalog []Profile

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (Catalog, error) { return ParseCatalog(rawCatalog) }

// LoadCatalog reads a catalog file, e.g. a lab's own board list.
func LoadCatalog(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "boards.load", err)
	}
	return ParseCatalog(b)
}

// ParseCatalog decodes and validates every profile. Duplicate names are
// rejected.
func ParseCatalog(b []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "boards.parse", err)
	}
	seen := make(map[string]bool, len(c))
	for _, p := range c {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, errcode.New(errcode.InvalidParams, "boards.parse", "duplicate board "+p.Name)
		}
		seen[p.Name] = true
	}
	return c, nil
}

// Find returns the profile called name.
func (c Catalog) Find(name string) (Profile, error) {
	i := slices.IndexFunc(c, func(p Profile) bool { return p.Name == name })
	if i < 0 {
		return Profile{}, errcode.New(errcode.UnknownBoard, "boards.find", name)
	}
	return c[i], nil
}

// Names lists the profile names sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, p := range c {
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return names
}
