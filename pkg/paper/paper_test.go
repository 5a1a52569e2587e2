package paper

import (
	"math"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"A5", "A5", true},
		{"a6", "A6", true},
		{" B6 ", "B6", true},
		{"A4", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.name, got.Name, tt.want)
			}
		})
	}
}

func TestResolveFallsBackToA5(t *testing.T) {
	for _, name := range []string{"", "Letter", "A4", "garbage"} {
		if got := Resolve(name); got.Name != "A5" {
			t.Errorf("Resolve(%q) = %s, want A5", name, got.Name)
		}
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name       string
		wantW      float64
		wantH      float64
		wantWPoint float64
	}{
		{"A5", 148, 210, 419.527559},
		{"A6", 105, 148, 297.637795},
		{"B6", 125, 176, 354.330709},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Resolve(tt.name)
			if math.Abs(s.WidthMM()-tt.wantW) > 1e-9 || math.Abs(s.HeightMM()-tt.wantH) > 1e-9 {
				t.Errorf("%s = %.3fx%.3f mm, want %vx%v", tt.name, s.WidthMM(), s.HeightMM(), tt.wantW, tt.wantH)
			}
			if math.Abs(s.Width-tt.wantWPoint) > 1e-5 {
				t.Errorf("%s width = %.6f pt, want %.6f", tt.name, s.Width, tt.wantWPoint)
			}
			g := s.Geometry()
			if g.Width != s.Width || g.Height != s.Height {
				t.Errorf("Geometry() = %+v, want %vx%v", g, s.Width, s.Height)
			}
		})
	}
}

func TestNames(t *testing.T) {
	got := Names()
	want := []string{"A5", "A6", "B6"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCM(t *testing.T) {
	if math.Abs(CM-28.346456692913385) > 1e-12 {
		t.Errorf("CM = %v", CM)
	}
}
