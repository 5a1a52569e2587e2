package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/observability"
	"github.com/matzehuels/handbook/pkg/palette"
	"github.com/matzehuels/handbook/pkg/paper"
	"github.com/matzehuels/handbook/pkg/pattern"
	"github.com/matzehuels/handbook/pkg/surface"
)

// Runner executes the pipeline.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options; every run renders into its own buffer.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete background → pattern → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	size := opts.PageSize()
	if _, ok := paper.Lookup(opts.Size); !ok {
		logger.Debug("unknown page size, using default", "size", opts.Size, "default", size.Name)
	}
	geom := size.Geometry()
	params := opts.PatternParams()

	result := &Result{
		Format: opts.Format,
		Size:   size,
		Style:  params.Style,
		Color:  palette.Lighten(opts.Color),
	}

	s := newSurface(opts, geom)

	// Stage 1: Background
	if len(opts.Background) > 0 {
		bgStart := time.Now()
		drawn, err := r.drawBackground(ctx, s, geom, opts)
		result.Stats.BackgroundTime = time.Since(bgStart)
		if err != nil {
			return nil, fmt.Errorf("composite background: %w", err)
		}
		result.Background = drawn
	}
	if opts.BackgroundPosition != DefaultPosition {
		logger.Debug("background position ignored", "bg_position", opts.BackgroundPosition)
	}

	// Stage 2: Pattern
	planStart := time.Now()
	seq, err := pattern.Plan(geom, params)
	if err != nil {
		return nil, fmt.Errorf("plan pattern: %w", err)
	}
	if n, err := pattern.Count(geom, params); err == nil {
		logger.Debug("planned pattern", "style", params.Style, "primitives", n)
	}
	s.SetStrokeColor(result.Color)
	s.SetFillColor(result.Color)
	s.SetLineWidth(pattern.LineWidth)
	result.Primitives = surface.Render(s, withContext(ctx, seq))
	result.Stats.PlanTime = time.Since(planStart)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	observability.Pipeline().OnPlanComplete(ctx, string(params.Style), result.Primitives, result.Stats.PlanTime)

	logger.Debug("drew pattern",
		"style", params.Style,
		"color", result.Color.Hex(),
		"primitives", result.Primitives,
		"duration", result.Stats.PlanTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	var buf bytes.Buffer
	err = s.Finalize(&buf)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, buf.Len(), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	result.Data = buf.Bytes()

	logger.Info("rendered sheet",
		"size", size.Name,
		"style", params.Style,
		"format", opts.Format,
		"background", result.Background,
		"bytes", len(result.Data),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// drawBackground decodes and composites the background and draws it
// full-page. It returns false without an error when the upload cannot be
// decoded: that failure is logged and the sheet is rendered without it.
func (r *Runner) drawBackground(ctx context.Context, s surface.Surface, geom pattern.Geometry, opts Options) (bool, error) {
	observability.Pipeline().OnBackgroundStart(ctx, len(opts.Background))
	start := time.Now()

	img, err := loadBackground(opts.Background, opts.MaxBackgroundEdge, opts.BackgroundOpacity)
	if err != nil {
		observability.Pipeline().OnBackgroundComplete(ctx, 0, 0, time.Since(start), err)
		if errors.Fatal(err) {
			return false, err
		}
		opts.Logger.Warn("skipping background image", "error", errors.UserMessage(err))
		return false, nil
	}

	b := img.Bounds()
	observability.Pipeline().OnBackgroundComplete(ctx, b.Dx(), b.Dy(), time.Since(start), nil)
	opts.Logger.Debug("composited background",
		"width", b.Dx(),
		"height", b.Dy(),
		"opacity", opts.BackgroundOpacity)

	if err := s.DrawImage(img, 0, 0, geom.Width, geom.Height); err != nil {
		return false, err
	}
	return true, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
