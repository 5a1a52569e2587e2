package errors

import (
	"math"
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 0.5, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("spacing", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParameter) {
				t.Errorf("ValidatePositive(%v) returned wrong error code: %v", tt.value, err)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 1, false},
		{"zero", 0, false},
		{"negative", -0.1, true},
		{"negative inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("margin", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegative(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"handbook.pdf", false},
		{"out/sheet.png", false},
		{"", true},
		{"bad\x00name.pdf", true},
		{"dir/", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateOutputPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidParameter,
		ErrCodeInvalidColor,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeImageDecode,
		ErrCodeImageTooLarge,
		ErrCodeRenderFailure,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
