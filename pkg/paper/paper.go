// Package paper holds the fixed table of supported sheet sizes.
//
// Dimensions are in PDF points (1/72 inch), the unit every other package
// in this module uses for page geometry.
package paper

import (
	"sort"
	"strings"

	"github.com/matzehuels/handbook/pkg/pattern"
)

// Length units expressed in points.
const (
	Inch = 72.0
	CM   = Inch / 2.54
	MM   = CM / 10
)

// Size is a named sheet size.
type Size struct {
	Name   string
	Width  float64 // points
	Height float64 // points
}

// Geometry returns the page geometry for s.
func (s Size) Geometry() pattern.Geometry {
	return pattern.Geometry{Width: s.Width, Height: s.Height}
}

// WidthMM returns the width in millimetres.
func (s Size) WidthMM() float64 { return s.Width / MM }

// HeightMM returns the height in millimetres.
func (s Size) HeightMM() float64 { return s.Height / MM }

// Default is the size used when a name is missing or unknown.
const Default = "A5"

var sizes = map[string]Size{
	"A5": {Name: "A5", Width: 148 * MM, Height: 210 * MM},
	"A6": {Name: "A6", Width: 105 * MM, Height: 148 * MM},
	"B6": {Name: "B6", Width: 125 * MM, Height: 176 * MM},
}

// Lookup returns the size registered under name (case-insensitive).
func Lookup(name string) (Size, bool) {
	s, ok := sizes[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}

// Resolve returns the size registered under name, or the A5 default.
func Resolve(name string) Size {
	if s, ok := Lookup(name); ok {
		return s
	}
	return sizes[Default]
}

// All returns every supported size ordered by name.
func All() []Size {
	out := make([]Size, 0, len(sizes))
	for _, s := range sizes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the supported size names ordered alphabetically.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}
