package surface

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	herrors "github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/palette"
	"github.com/matzehuels/handbook/pkg/pattern"
)

var page = pattern.Geometry{Width: 100, Height: 150}

func plan(t *testing.T, style pattern.Style) func(func(pattern.Primitive) bool) {
	t.Helper()
	seq, err := pattern.Plan(page, pattern.Params{Spacing: 25, Margin: 0, Style: style})
	if err != nil {
		t.Fatal(err)
	}
	return seq
}

func TestRenderDispatch(t *testing.T) {
	tests := []struct {
		style   pattern.Style
		lines   int
		circles int
	}{
		{pattern.Grid, 5 + 7, 0},
		{pattern.RuledLines, 7, 0},
		{pattern.Dots, 0, 35},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			r := NewRecorder(page)
			n := Render(r, plan(t, tt.style))
			if n != tt.lines+tt.circles {
				t.Errorf("Render returned %d, want %d", n, tt.lines+tt.circles)
			}
			if got := r.Count(OpLine); got != tt.lines {
				t.Errorf("lines = %d, want %d", got, tt.lines)
			}
			if got := r.Count(OpCircle); got != tt.circles {
				t.Errorf("circles = %d, want %d", got, tt.circles)
			}
			for _, op := range r.Ops() {
				if op.Name == OpCircle && (!op.Filled || op.Args[2] != pattern.DotRadius) {
					t.Errorf("circle op = %+v, want filled with radius %v", op, pattern.DotRadius)
				}
			}
		})
	}
}

func TestRecorderFinalize(t *testing.T) {
	r := NewRecorder(page)
	r.SetStrokeColor(palette.RGB{R: 1, G: 0.5, B: 0.5})
	r.SetLineWidth(pattern.LineWidth)
	r.DrawLine(0, 0, 10, 0)
	if err := r.DrawImage(image.NewNRGBA(image.Rect(0, 0, 4, 3)), 0, 0, 100, 150); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := r.Finalize(&buf); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Width != 100 || doc.Height != 150 {
		t.Errorf("size = %vx%v, want 100x150", doc.Width, doc.Height)
	}
	if len(doc.Ops) != 4 {
		t.Fatalf("ops = %d, want 4", len(doc.Ops))
	}
	if doc.Ops[0].Color != "#ff8080" {
		t.Errorf("stroke color = %q, want #ff8080", doc.Ops[0].Color)
	}
	if img := doc.Ops[3]; img.Name != OpImage || img.PixelWidth != 4 || img.PixelHeight != 3 {
		t.Errorf("image op = %+v", img)
	}

	if err := r.Finalize(&buf); !herrors.Is(err, herrors.ErrCodeRenderFailure) {
		t.Errorf("second Finalize error = %v, want RENDER_FAILURE", err)
	}
}

func TestRecorderEmptyOps(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRecorder(page).Finalize(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"ops": []`)) {
		t.Errorf("empty recorder should write an empty ops array, got %s", buf.String())
	}
}

func drawSample(t *testing.T, s Surface) {
	t.Helper()
	bg := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for i := range bg.Pix {
		bg.Pix[i] = 0x80
	}
	if err := s.DrawImage(bg, 0, 0, page.Width, page.Height); err != nil {
		t.Fatalf("DrawImage error: %v", err)
	}
	rgb := palette.Lighten("#336699")
	s.SetStrokeColor(rgb)
	s.SetFillColor(rgb)
	s.SetLineWidth(pattern.LineWidth)
	Render(s, plan(t, pattern.Grid))
	Render(s, plan(t, pattern.Dots))
}

func TestCanvasPDF(t *testing.T) {
	c := NewCanvas(page)
	if c.Format() != FormatPDF {
		t.Fatalf("default format = %s, want pdf", c.Format())
	}
	drawSample(t, c)

	var buf bytes.Buffer
	if err := c.Finalize(&buf); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
	if err := c.Finalize(&buf); err == nil {
		t.Error("second Finalize should fail")
	}
}

func TestCanvasPNG(t *testing.T) {
	c := NewCanvas(page, WithFormat(FormatPNG), WithResolution(2))
	drawSample(t, c)

	var buf bytes.Buffer
	if err := c.Finalize(&buf); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode error: %v", err)
	}
	// 100pt = 35.28mm at 2 dots/mm
	if w := img.Bounds().Dx(); w < 69 || w > 72 {
		t.Errorf("png width = %d, want about 71", w)
	}
}

func TestCanvasBlankPNGIsWhite(t *testing.T) {
	c := NewCanvas(page, WithFormat(FormatPNG), WithResolution(1))
	var buf bytes.Buffer
	if err := c.Finalize(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	got := color.NRGBAModel.Convert(img.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2)).(color.NRGBA)
	if got.R < 0xf0 || got.G < 0xf0 || got.B < 0xf0 {
		t.Errorf("blank page center = %+v, want white", got)
	}
}

func TestCanvasDrawImageRejectsEmpty(t *testing.T) {
	c := NewCanvas(page)
	if err := c.DrawImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 0, 0, 10, 10); err == nil {
		t.Error("empty image should fail")
	}
	if err := c.DrawImage(image.NewNRGBA(image.Rect(0, 0, 2, 2)), 0, 0, 0, 10); err == nil {
		t.Error("empty box should fail")
	}
}

func TestCanvasUnknownFormat(t *testing.T) {
	c := NewCanvas(page, WithFormat("svg"))
	err := c.Finalize(&bytes.Buffer{})
	if !herrors.Is(err, herrors.ErrCodeInvalidFormat) {
		t.Errorf("Finalize error = %v, want INVALID_FORMAT", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCanvasWriteFailure(t *testing.T) {
	c := NewCanvas(page)
	drawSample(t, c)
	err := c.Finalize(failingWriter{})
	if !herrors.Is(err, herrors.ErrCodeRenderFailure) {
		t.Errorf("Finalize error = %v, want RENDER_FAILURE", err)
	}
}
