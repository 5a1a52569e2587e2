package pattern

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/matzehuels/handbook/pkg/errors"
)

// Drawing conventions shared by every surface. Both are in points.
const (
	LineWidth = 0.1
	DotRadius = 0.2
)

// MaxPrimitives caps the size of a single plan. A spacing small enough to
// exceed it is rejected rather than rendered.
const MaxPrimitives = 2_000_000

// stepTolerance absorbs division rounding so a span that is an exact
// multiple of the spacing still includes its far boundary.
const stepTolerance = 1e-9

// Style selects the guide overlay shape.
type Style string

// Supported styles. The values match the web form field.
const (
	Grid       Style = "grid"
	RuledLines Style = "line"
	Dots       Style = "dot"
)

// Styles lists every supported style in display order.
var Styles = []Style{Grid, RuledLines, Dots}

// ParseStyle converts a form or flag value into a Style.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case Grid, RuledLines, Dots:
		return st, nil
	}
	return "", errors.New(errors.ErrCodeInvalidParameter, "unknown pattern style %q (must be grid, line, or dot)", s)
}

// String returns the form value of s.
func (s Style) String() string { return string(s) }

// Describe returns a short human label for s.
func (s Style) Describe() string {
	switch s {
	case Grid:
		return "square grid"
	case RuledLines:
		return "ruled lines"
	case Dots:
		return "dot matrix"
	}
	return fmt.Sprintf("unknown (%s)", string(s))
}

// Geometry is the physical page size in points.
type Geometry struct {
	Width  float64
	Height float64
}

// Params controls the overlay.
type Params struct {
	Spacing float64 // distance between adjacent lines or dots
	Margin  float64 // blank border on every side
	Style   Style
}

// Kind tags a Primitive.
type Kind uint8

// Primitive kinds.
const (
	KindSegment Kind = iota + 1
	KindPoint
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Primitive is a single drawing instruction. Segments use X1..Y2;
// points use X, Y and Radius.
type Primitive struct {
	Kind           Kind
	X1, Y1, X2, Y2 float64
	X, Y, Radius   float64
}

// Segment returns a line segment primitive.
func Segment(x1, y1, x2, y2 float64) Primitive {
	return Primitive{Kind: KindSegment, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Point returns a dot primitive.
func Point(x, y, radius float64) Primitive {
	return Primitive{Kind: KindPoint, X: x, Y: y, Radius: radius}
}

// Horizontal reports whether p is a horizontal segment.
func (p Primitive) Horizontal() bool {
	return p.Kind == KindSegment && p.Y1 == p.Y2
}

// Vertical reports whether p is a vertical segment.
func (p Primitive) Vertical() bool {
	return p.Kind == KindSegment && p.X1 == p.X2
}

// layout is the validated, index-bounded form of a plan.
type layout struct {
	margin, spacing float64
	right, top      float64 // far edges of the printable rectangle
	nx, ny          int     // positions along x and y
}

func (l layout) x(i int) float64 { return l.margin + float64(i)*l.spacing }
func (l layout) y(j int) float64 { return l.margin + float64(j)*l.spacing }

// positions returns how many of start, start+spacing, ... are <= end.
func positions(start, end, spacing float64) float64 {
	if end < start {
		return 0
	}
	return math.Floor((end-start)/spacing+stepTolerance) + 1
}

func prepare(g Geometry, p Params) (layout, error) {
	if err := errors.ValidatePositive("page width", g.Width); err != nil {
		return layout{}, err
	}
	if err := errors.ValidatePositive("page height", g.Height); err != nil {
		return layout{}, err
	}
	if err := errors.ValidatePositive("spacing", p.Spacing); err != nil {
		return layout{}, err
	}
	if err := errors.ValidateNonNegative("margin", p.Margin); err != nil {
		return layout{}, err
	}
	switch p.Style {
	case Grid, RuledLines, Dots:
	default:
		return layout{}, errors.New(errors.ErrCodeInvalidParameter, "unknown pattern style %q", string(p.Style))
	}

	l := layout{
		margin:  p.Margin,
		spacing: p.Spacing,
		right:   g.Width - p.Margin,
		top:     g.Height - p.Margin,
	}
	// An inverted rectangle on either axis leaves nothing to draw.
	if l.right < l.margin || l.top < l.margin {
		return l, nil
	}
	nx := positions(l.margin, l.right, l.spacing)
	ny := positions(l.margin, l.top, l.spacing)
	total := nx + ny
	if p.Style == Dots {
		total = nx * ny
	}
	if total > MaxPrimitives {
		return layout{}, errors.New(errors.ErrCodeInvalidParameter,
			"spacing %g is too small for a %gx%g page", p.Spacing, g.Width, g.Height)
	}
	l.nx, l.ny = int(nx), int(ny)
	return l, nil
}

// Plan validates the parameters and returns the primitive sequence.
// The sequence is recomputed on every range and may be iterated repeatedly.
func Plan(g Geometry, p Params) (iter.Seq[Primitive], error) {
	l, err := prepare(g, p)
	if err != nil {
		return nil, err
	}

	switch p.Style {
	case Grid:
		return func(yield func(Primitive) bool) {
			if !l.verticals(yield) {
				return
			}
			l.horizontals(yield)
		}, nil
	case RuledLines:
		return func(yield func(Primitive) bool) {
			l.horizontals(yield)
		}, nil
	default:
		return l.dots, nil
	}
}

// Count returns the number of primitives Plan would produce.
func Count(g Geometry, p Params) (int, error) {
	l, err := prepare(g, p)
	if err != nil {
		return 0, err
	}
	switch p.Style {
	case Grid:
		return l.nx + l.ny, nil
	case RuledLines:
		return l.ny, nil
	default:
		return l.nx * l.ny, nil
	}
}

func (l layout) verticals(yield func(Primitive) bool) bool {
	for i := 0; i < l.nx; i++ {
		x := l.x(i)
		if !yield(Segment(x, l.margin, x, l.top)) {
			return false
		}
	}
	return true
}

func (l layout) horizontals(yield func(Primitive) bool) bool {
	for j := 0; j < l.ny; j++ {
		y := l.y(j)
		if !yield(Segment(l.margin, y, l.right, y)) {
			return false
		}
	}
	return true
}

func (l layout) dots(yield func(Primitive) bool) {
	for i := 0; i < l.nx; i++ {
		x := l.x(i)
		for j := 0; j < l.ny; j++ {
			if !yield(Point(x, l.y(j), DotRadius)) {
				return
			}
		}
	}
}
