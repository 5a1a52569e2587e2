package surface

import (
	"image"
	"io"
	"iter"

	"github.com/matzehuels/handbook/pkg/palette"
	"github.com/matzehuels/handbook/pkg/pattern"
)

// Surface is a single drawable page.
type Surface interface {
	// DrawImage places img with its lower-left corner at (x, y), stretched
	// to exactly w x h.
	DrawImage(img image.Image, x, y, w, h float64) error

	SetStrokeColor(c palette.RGB)
	SetFillColor(c palette.RGB)
	SetLineWidth(w float64)

	DrawLine(x1, y1, x2, y2 float64)
	DrawCircle(x, y, r float64, filled bool)

	// Finalize closes the page and writes the encoded result to w.
	// The surface must not be drawn on afterwards.
	Finalize(w io.Writer) error
}

// Render draws every primitive in seq and returns how many were drawn.
func Render(s Surface, seq iter.Seq[pattern.Primitive]) int {
	n := 0
	for p := range seq {
		switch p.Kind {
		case pattern.KindSegment:
			s.DrawLine(p.X1, p.Y1, p.X2, p.Y2)
		case pattern.KindPoint:
			s.DrawCircle(p.X, p.Y, p.Radius, true)
		default:
			continue
		}
		n++
	}
	return n
}
