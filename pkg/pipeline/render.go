package pipeline

import (
	"context"
	"image"
	"iter"

	"github.com/matzehuels/handbook/pkg/compose"
	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/pattern"
	"github.com/matzehuels/handbook/pkg/surface"
)

// ctxCheckInterval is how many primitives are drawn between context checks.
const ctxCheckInterval = 1024

// newSurface creates the drawing surface for the requested format.
// opts must already be validated.
func newSurface(opts Options, geom pattern.Geometry) surface.Surface {
	switch opts.Format {
	case FormatJSON:
		return surface.NewRecorder(geom)
	case FormatPNG:
		return surface.NewCanvas(geom,
			surface.WithFormat(surface.FormatPNG),
			surface.WithResolution(opts.Resolution))
	default:
		return surface.NewCanvas(geom, surface.WithFormat(surface.FormatPDF))
	}
}

// loadBackground decodes an upload, bounds its size and flattens it onto
// white at the given opacity.
func loadBackground(data []byte, maxEdge int, opacity float64) (image.Image, error) {
	img, err := compose.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	img = compose.Fit(img, maxEdge)
	out := compose.ApplyOpacity(img, opacity)
	if out.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeImageDecode, "background image has no pixels")
	}
	return out, nil
}

// withContext stops seq early once ctx is done.
func withContext(ctx context.Context, seq iter.Seq[pattern.Primitive]) iter.Seq[pattern.Primitive] {
	return func(yield func(pattern.Primitive) bool) {
		n := 0
		for p := range seq {
			if n%ctxCheckInterval == 0 && ctx.Err() != nil {
				return
			}
			n++
			if !yield(p) {
				return
			}
		}
	}
}
