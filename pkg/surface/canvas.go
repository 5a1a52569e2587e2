package surface

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"

	"github.com/matzehuels/handbook/pkg/compose"
	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/palette"
	"github.com/matzehuels/handbook/pkg/pattern"
)

// Format selects the encoding Canvas writes on Finalize.
type Format string

// Output formats.
const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// DefaultResolution is the PNG rasterization density in dots per millimetre
// (about 203 dpi).
const DefaultResolution = 8.0

// mmPerPoint converts points to the millimetres canvas works in.
const mmPerPoint = 25.4 / 72

var transparent = color.NRGBA{}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithFormat sets the output encoding (default PDF).
func WithFormat(f Format) CanvasOption {
	return func(c *Canvas) { c.format = f }
}

// WithResolution sets the PNG density in dots per millimetre.
// It has no effect on PDF output.
func WithResolution(dpmm float64) CanvasOption {
	return func(c *Canvas) {
		if dpmm > 0 {
			c.dpmm = dpmm
		}
	}
}

// Canvas is a Surface backed by tdewolff/canvas.
type Canvas struct {
	c   *canvas.Canvas
	ctx *canvas.Context

	format Format
	dpmm   float64

	stroke    color.NRGBA
	fill      color.NRGBA
	lineWidth float64 // points

	finalized bool
}

// NewCanvas creates a blank page of the given geometry. The page starts
// white, so PNG output has no transparent regions.
func NewCanvas(g pattern.Geometry, opts ...CanvasOption) *Canvas {
	c := &Canvas{
		format:    FormatPDF,
		dpmm:      DefaultResolution,
		stroke:    color.NRGBA{A: 0xff},
		fill:      color.NRGBA{A: 0xff},
		lineWidth: 1,
	}
	for _, opt := range opts {
		opt(c)
	}

	w, h := g.Width*mmPerPoint, g.Height*mmPerPoint
	c.c = canvas.New(w, h)
	c.ctx = canvas.NewContext(c.c)

	c.ctx.SetStrokeColor(transparent)
	c.ctx.SetFillColor(compose.White)
	c.ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	return c
}

// Format reports the encoding Finalize will produce.
func (c *Canvas) Format() Format { return c.format }

// DrawImage stretches img to the w x h point box at (x, y). The source
// keeps its horizontal pixel density; rows are resampled to match the
// box's aspect ratio.
func (c *Canvas) DrawImage(img image.Image, x, y, w, h float64) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeRenderFailure, "image box %gx%g is empty", w, h)
	}
	b := img.Bounds()
	if b.Empty() {
		return errors.New(errors.ErrCodeRenderFailure, "image has no pixels")
	}

	px := b.Dx()
	py := int(math.Round(float64(px) * h / w))
	stretched := compose.Stretch(img, px, py)

	dpmm := float64(px) / (w * mmPerPoint)
	c.ctx.DrawImage(x*mmPerPoint, y*mmPerPoint, stretched, canvas.DPMM(dpmm))
	return nil
}

// SetStrokeColor sets the color used for lines and circle outlines.
func (c *Canvas) SetStrokeColor(rgb palette.RGB) { c.stroke = rgb.Color() }

// SetFillColor sets the color used to fill circles.
func (c *Canvas) SetFillColor(rgb palette.RGB) { c.fill = rgb.Color() }

// SetLineWidth sets the stroke width in points.
func (c *Canvas) SetLineWidth(w float64) { c.lineWidth = w }

// DrawLine strokes a segment.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64) {
	p := &canvas.Path{}
	p.MoveTo(x1*mmPerPoint, y1*mmPerPoint)
	p.LineTo(x2*mmPerPoint, y2*mmPerPoint)

	c.ctx.SetFillColor(transparent)
	c.ctx.SetStrokeColor(c.stroke)
	c.ctx.SetStrokeWidth(c.lineWidth * mmPerPoint)
	c.ctx.DrawPath(0, 0, p)
}

// DrawCircle strokes a circle, filling it when filled is set.
func (c *Canvas) DrawCircle(x, y, r float64, filled bool) {
	if filled {
		c.ctx.SetFillColor(c.fill)
	} else {
		c.ctx.SetFillColor(transparent)
	}
	c.ctx.SetStrokeColor(c.stroke)
	c.ctx.SetStrokeWidth(c.lineWidth * mmPerPoint)
	c.ctx.DrawPath(x*mmPerPoint, y*mmPerPoint, canvas.Circle(r*mmPerPoint))
}

// Finalize encodes the page as PDF or PNG.
func (c *Canvas) Finalize(w io.Writer) error {
	if c.finalized {
		return errors.New(errors.ErrCodeRenderFailure, "page already finalized")
	}
	c.finalized = true

	var writer canvas.Writer
	switch c.format {
	case FormatPDF:
		writer = renderers.PDF()
	case FormatPNG:
		writer = renderers.PNG(canvas.DPMM(c.dpmm))
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported page format %q", string(c.format))
	}

	if err := writer(w, c.c); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailure, err, "write %s", string(c.format))
	}
	return nil
}

// Ensure Canvas implements Surface.
var _ Surface = (*Canvas)(nil)

func (f Format) String() string { return string(f) }
