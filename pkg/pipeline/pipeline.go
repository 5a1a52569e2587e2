// Package pipeline renders a complete handbook sheet.
//
// This package implements the background → pattern → encode flow shared by
// the CLI and the HTTP server, so both entry points produce identical pages
// for identical inputs.
//
// # Architecture
//
// A run consists of three stages:
//
//  1. Background: decode the optional upload, downscale it, and blend it
//     onto white at the requested opacity. A background that cannot be
//     decoded is logged and skipped; the page is still produced.
//  2. Pattern: lighten the pattern color and plan the grid, ruled-line or
//     dot primitives for the page.
//  3. Render: draw everything onto a surface and encode it as PDF, PNG or
//     a JSON record of the drawing operations.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.DefaultOptions()
//	opts.Size = "A6"
//	opts.Style = "dot"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename(), result.Data, 0o644)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/palette"
	"github.com/matzehuels/handbook/pkg/paper"
	"github.com/matzehuels/handbook/pkg/pattern"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultSize is the sheet size used when none (or an unknown one) is given.
	DefaultSize = paper.Default

	// DefaultStyle is the guide pattern drawn when none is given.
	DefaultStyle = pattern.Grid

	// DefaultColor is the pattern color before lightening.
	DefaultColor = "#999999"

	// DefaultSpacing is the distance between guide lines in centimetres.
	DefaultSpacing = 0.5

	// DefaultMargin is the blank border around the pattern in centimetres.
	DefaultMargin = 1.0

	// DefaultOpacity is the background opacity in percent.
	DefaultOpacity = 80.0

	// DefaultPosition is the accepted but unused background position.
	DefaultPosition = "center"

	// DefaultMaxBackgroundEdge bounds the longest edge of an embedded
	// background in pixels. Larger uploads are downscaled first.
	DefaultMaxBackgroundEdge = 3000

	// DefaultResolution is the PNG density in dots per millimetre.
	DefaultResolution = 8.0
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultFormat is the output format used when none is given.
const DefaultFormat = FormatPDF

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// contentTypes maps output formats to their MIME types.
var contentTypes = map[string]string{
	FormatPDF:  "application/pdf",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// FilenameBase is the stem of every generated file name.
const FilenameBase = "handbook_with_bg"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one rendered sheet.
//
// String fields left empty are filled by ValidateAndSetDefaults. Numeric
// fields are taken as given, because zero is meaningful for margin and
// opacity; start from DefaultOptions to get the documented defaults.
type Options struct {
	// Page options
	Size  string `json:"size,omitempty"`
	Style string `json:"style,omitempty"`
	Color string `json:"color,omitempty"`

	// Spacing and Margin are in centimetres.
	Spacing float64 `json:"spacing"`
	Margin  float64 `json:"margin"`

	// Background options
	Background         []byte  `json:"-"`
	BackgroundOpacity  float64 `json:"bg_opacity"`
	BackgroundPosition string  `json:"bg_position,omitempty"`
	MaxBackgroundEdge  int     `json:"-"`

	// Output options
	Format     string  `json:"format,omitempty"`
	Resolution float64 `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options populated with every documented default.
func DefaultOptions() Options {
	return Options{
		Size:               DefaultSize,
		Style:              string(DefaultStyle),
		Color:              DefaultColor,
		Spacing:            DefaultSpacing,
		Margin:             DefaultMargin,
		BackgroundOpacity:  DefaultOpacity,
		BackgroundPosition: DefaultPosition,
		MaxBackgroundEdge:  DefaultMaxBackgroundEdge,
		Format:             DefaultFormat,
		Resolution:         DefaultResolution,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the encoded page.
	Data []byte

	// Format is the encoding of Data.
	Format string

	// Size is the resolved sheet size.
	Size paper.Size

	// Style is the pattern that was drawn.
	Style pattern.Style

	// Color is the lightened pattern color.
	Color palette.RGB

	// Primitives is the number of lines or dots drawn.
	Primitives int

	// Background reports whether a background image was embedded.
	Background bool

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BackgroundTime time.Duration
	PlanTime       time.Duration
	RenderTime     time.Duration
}

// Filename returns the download name for the result, e.g. handbook_with_bg.pdf.
func (r *Result) Filename() string {
	return FilenameBase + "." + r.Format
}

// ContentType returns the MIME type of the result.
func (r *Result) ContentType() string {
	return ContentType(r.Format)
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidParameter,
			"invalid format: %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ClampOpacity limits an opacity percent to [0, 100]. NaN becomes 0.
func ClampOpacity(percent float64) float64 {
	switch {
	case percent > 100:
		return 100
	case percent >= 0:
		return percent
	default:
		return 0
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Size == "" {
		o.Size = DefaultSize
	}
	if o.Style == "" {
		o.Style = string(DefaultStyle)
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.BackgroundPosition == "" {
		o.BackgroundPosition = DefaultPosition
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.MaxBackgroundEdge == 0 {
		o.MaxBackgroundEdge = DefaultMaxBackgroundEdge
	}
	if o.Resolution <= 0 {
		o.Resolution = DefaultResolution
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if _, err := pattern.ParseStyle(o.Style); err != nil {
		return err
	}
	if err := errors.ValidatePositive("spacing", o.Spacing); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("margin", o.Margin); err != nil {
		return err
	}
	if err := errors.ValidateFinite("bg_opacity", o.BackgroundOpacity); err != nil {
		return err
	}
	o.BackgroundOpacity = ClampOpacity(o.BackgroundOpacity)

	o.validated = true
	return nil
}

// PageSize resolves the sheet size, falling back to the default for
// unknown names.
func (o *Options) PageSize() paper.Size {
	return paper.Resolve(o.Size)
}

// PatternParams converts the centimetre spacing and margin to points.
func (o *Options) PatternParams() pattern.Params {
	style, _ := pattern.ParseStyle(o.Style)
	return pattern.Params{
		Spacing: o.Spacing * paper.CM,
		Margin:  o.Margin * paper.CM,
		Style:   style,
	}
}
