package palette

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/handbook/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  RGB8
	}{
		{"#999999", RGB8{0x99, 0x99, 0x99}},
		{"999999", RGB8{0x99, 0x99, 0x99}},
		{"#abc", RGB8{0xaa, 0xbb, 0xcc}},
		{"abc", RGB8{0xaa, 0xbb, 0xcc}},
		{"#FF0080", RGB8{0xff, 0x00, 0x80}},
		{"#000", RGB8{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "#", "#12", "#1234", "#12345g", "zzz", "#-12345", "#+1234", "12345678"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", input)
			}
			if !errors.Is(err, errors.ErrCodeInvalidColor) {
				t.Errorf("Parse(%q) code = %v, want %v", input, errors.GetCode(err), errors.ErrCodeInvalidColor)
			}
		})
	}
}

func TestLighten(t *testing.T) {
	tests := []struct {
		input string
		want  RGB
	}{
		{"#000000", RGB{0.5, 0.5, 0.5}},
		{"#ffffff", RGB{1, 1, 1}},
		{"#999999", RGB{(153.0 + 255) / 2 / 255, (153.0 + 255) / 2 / 255, (153.0 + 255) / 2 / 255}},
		{"#f00", RGB{1, 0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Lighten(tt.input)
			if !near(got, tt.want) {
				t.Errorf("Lighten(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLightenFallback(t *testing.T) {
	for _, input := range []string{"", "#", "red", "#12345", "#ggg", "#1234567"} {
		if got := Lighten(input); got != Fallback {
			t.Errorf("Lighten(%q) = %+v, want fallback %+v", input, got, Fallback)
		}
	}
	if Fallback != (RGB{0.85, 0.85, 0.85}) {
		t.Errorf("Fallback = %+v, want 0.85 gray", Fallback)
	}
}

func TestLightenBrightnessFloor(t *testing.T) {
	// Walk a coarse lattice of both notations.
	for v := 0; v < 4096; v += 7 {
		long := fmt.Sprintf("#%06x", v*4099%0x1000000)
		short := fmt.Sprintf("%03x", v)
		for _, input := range []string{long, short} {
			c := Lighten(input)
			for _, ch := range []float64{c.R, c.G, c.B} {
				if ch < 0.5 || ch > 1.0 {
					t.Fatalf("Lighten(%q) channel %v outside [0.5, 1]", input, ch)
				}
			}
		}
	}
}

func TestRGBColorAndHex(t *testing.T) {
	c := RGB{1, 0.5, 0}
	n := c.Color()
	if n.R != 0xff || n.G != 0x80 || n.B != 0 || n.A != 0xff {
		t.Errorf("Color() = %+v", n)
	}
	if got := c.Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want #ff8000", got)
	}
	if got := Fallback.Hex(); got != "#d9d9d9" {
		t.Errorf("Fallback.Hex() = %q, want #d9d9d9", got)
	}
}

func near(a, b RGB) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}
