package surface

import (
	"encoding/json"
	"image"
	"io"

	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/palette"
	"github.com/matzehuels/handbook/pkg/pattern"
)

// Op names recorded by Recorder.
const (
	OpImage       = "image"
	OpStrokeColor = "stroke_color"
	OpFillColor   = "fill_color"
	OpLineWidth   = "line_width"
	OpLine        = "line"
	OpCircle      = "circle"
)

// Op is one recorded Surface call.
type Op struct {
	Name   string    `json:"op"`
	Args   []float64 `json:"args,omitempty"`
	Color  string    `json:"color,omitempty"`
	Filled bool      `json:"filled,omitempty"`

	// Pixel size of the image drawn by an OpImage.
	PixelWidth  int `json:"px_width,omitempty"`
	PixelHeight int `json:"px_height,omitempty"`
}

// Recorder is a Surface that keeps every call in memory. Finalize writes
// the page size and the call log as JSON.
type Recorder struct {
	geom      pattern.Geometry
	ops       []Op
	finalized bool
}

// NewRecorder creates a recorder for a page of the given geometry.
func NewRecorder(g pattern.Geometry) *Recorder {
	return &Recorder{geom: g}
}

// Ops returns the recorded calls in order.
func (r *Recorder) Ops() []Op { return r.ops }

// Count returns how many calls named name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// DrawImage records the placement box and the source pixel size.
func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) error {
	b := img.Bounds()
	r.ops = append(r.ops, Op{
		Name:        OpImage,
		Args:        []float64{x, y, w, h},
		PixelWidth:  b.Dx(),
		PixelHeight: b.Dy(),
	})
	return nil
}

func (r *Recorder) SetStrokeColor(c palette.RGB) {
	r.ops = append(r.ops, Op{Name: OpStrokeColor, Color: c.Hex()})
}

func (r *Recorder) SetFillColor(c palette.RGB) {
	r.ops = append(r.ops, Op{Name: OpFillColor, Color: c.Hex()})
}

func (r *Recorder) SetLineWidth(w float64) {
	r.ops = append(r.ops, Op{Name: OpLineWidth, Args: []float64{w}})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, Op{Name: OpLine, Args: []float64{x1, y1, x2, y2}})
}

func (r *Recorder) DrawCircle(x, y, radius float64, filled bool) {
	r.ops = append(r.ops, Op{Name: OpCircle, Args: []float64{x, y, radius}, Filled: filled})
}

// Document is the JSON form written by Recorder.Finalize.
type Document struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"ops"`
}

// Finalize writes the recorded page as indented JSON.
func (r *Recorder) Finalize(w io.Writer) error {
	if r.finalized {
		return errors.New(errors.ErrCodeRenderFailure, "page already finalized")
	}
	r.finalized = true

	ops := r.ops
	if ops == nil {
		ops = []Op{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Width: r.geom.Width, Height: r.geom.Height, Ops: ops}); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailure, err, "write json")
	}
	return nil
}

// Ensure Recorder implements Surface.
var _ Surface = (*Recorder)(nil)
