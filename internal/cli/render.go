package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/paper"
	"github.com/matzehuels/handbook/pkg/pattern"
	"github.com/matzehuels/handbook/pkg/pipeline"
)

// stdoutPath selects standard output for --output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file path, "-" for stdout
	format      string  // pdf, png or json
	background  string  // path of the background image
	opacity     float64 // background opacity in percent
	position    string  // background position (accepted, unused)
	size        string  // sheet size name
	style       string  // grid, line or dot
	color       string  // pattern color before lightening
	spacing     float64 // cm
	margin      float64 // cm
	resolution  float64 // PNG dots per mm
	interactive bool    // pick size and style in a TUI
	quiet       bool    // no spinner or summary
}

// renderCommand creates the render command that writes one sheet to disk.
// Flags the user did not set fall back to the [defaults] config section.
func (c *CLI) renderCommand() *cobra.Command {
	defaults := pipeline.DefaultOptions()
	opts := renderOpts{
		format:     defaults.Format,
		opacity:    defaults.BackgroundOpacity,
		position:   defaults.BackgroundPosition,
		size:       defaults.Size,
		style:      defaults.Style,
		color:      defaults.Color,
		spacing:    defaults.Spacing,
		margin:     defaults.Margin,
		resolution: defaults.Resolution,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a sheet to PDF, PNG or JSON",
		Long: `Render a handbook sheet and write it to a file.

Styles:
  grid   square grid
  line   ruled lines
  dot    dot matrix

Spacing and margin are in centimetres. The background image is stretched to
the full page and blended onto white at the given opacity.`,
		Example: `  handbook render
  handbook render --size A6 --style dot --spacing 0.4 -o dots.pdf
  handbook render -b photo.jpg --opacity 30 --format png -o preview.png
  handbook render -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			if opts.interactive {
				if err := c.pickInteractive(cmd.Flags(), &opts); err != nil {
					return err
				}
			}
			popts, err := c.buildOptions(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return c.runRender(ctx, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (default handbook_with_bg.<format>, "-" for stdout)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: pdf, png, json")
	cmd.Flags().StringVarP(&opts.background, "background", "b", "", "background image (JPEG, PNG, GIF, WebP, ...)")
	cmd.Flags().Float64Var(&opts.opacity, "opacity", opts.opacity, "background opacity in percent (0-100)")
	cmd.Flags().StringVar(&opts.position, "position", opts.position, "background position (the image always fills the page)")
	cmd.Flags().StringVarP(&opts.size, "size", "s", opts.size, "sheet size: "+strings.Join(paper.Names(), ", "))
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "pattern style: grid, line, dot")
	cmd.Flags().StringVarP(&opts.color, "color", "c", opts.color, "pattern color as #rgb or #rrggbb (drawn 50% lighter)")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", opts.spacing, "distance between lines or dots in cm")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "blank border around the pattern in cm")
	cmd.Flags().Float64Var(&opts.resolution, "resolution", opts.resolution, "PNG resolution in dots per mm")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose size and style interactively")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress and summary output")

	_ = cmd.RegisterFlagCompletionFunc("size", fixedCompletion(paper.Names()...))
	_ = cmd.RegisterFlagCompletionFunc("style", fixedCompletion("grid", "line", "dot"))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatJSON))

	return cmd
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// buildOptions merges config defaults with the flags the user set and
// validates the result. Unlike the web form, the CLI rejects an unknown
// style instead of falling back.
func (c *CLI) buildOptions(flags *pflag.FlagSet, opts renderOpts) (pipeline.Options, error) {
	p := c.cfg.Options()
	p.Logger = c.Logger

	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("format", func() { p.Format = opts.format })
	set("opacity", func() { p.BackgroundOpacity = opts.opacity })
	set("position", func() { p.BackgroundPosition = opts.position })
	set("size", func() { p.Size = opts.size })
	set("style", func() { p.Style = opts.style })
	set("color", func() { p.Color = opts.color })
	set("spacing", func() { p.Spacing = opts.spacing })
	set("margin", func() { p.Margin = opts.margin })
	set("resolution", func() { p.Resolution = opts.resolution })

	st, err := pattern.ParseStyle(p.Style)
	if err != nil {
		return p, err
	}
	p.Style = string(st)
	if _, ok := paper.Lookup(p.Size); !ok {
		printWarning("unknown size %q, using %s", p.Size, paper.Default)
		p.Size = paper.Default
	}

	if opts.background != "" {
		data, err := os.ReadFile(opts.background)
		if err != nil {
			return p, errors.Wrap(errors.ErrCodeInvalidPath, err, "read background")
		}
		p.Background = data
	}

	if err := p.ValidateAndSetDefaults(); err != nil {
		return p, err
	}
	return p, nil
}

// pickInteractive asks for the size and style unless they were given as flags.
func (c *CLI) pickInteractive(flags *pflag.FlagSet, opts *renderOpts) error {
	if !flags.Changed("size") {
		v, ok, err := pick(NewPickerModel("Select Sheet Size", sizeOptions(), c.cfg.Defaults.Size))
		if err != nil {
			return fmt.Errorf("size picker: %w", err)
		}
		if !ok {
			return context.Canceled
		}
		opts.size = v
		_ = flags.Set("size", v)
	}
	if !flags.Changed("style") {
		v, ok, err := pick(NewPickerModel("Select Pattern Style", styleOptions(), c.cfg.Defaults.Style))
		if err != nil {
			return fmt.Errorf("style picker: %w", err)
		}
		if !ok {
			return context.Canceled
		}
		opts.style = v
		_ = flags.Set("style", v)
	}
	return nil
}

// runRender executes the pipeline and writes the result.
func (c *CLI) runRender(ctx context.Context, p pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	output := opts.output
	if output == "" {
		output = pipeline.FilenameBase + "." + p.Format
	}
	if output != stdoutPath {
		if err := errors.ValidateOutputPath(output); err != nil {
			return err
		}
	}

	var spinner *Spinner
	if !opts.quiet && output != stdoutPath {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s %s sheet...", p.Size, p.Style))
		spinner.Start()
	}

	res, err := c.newRunner().Execute(ctx, p)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError(errors.UserMessage(err))
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	if err := writeOutput(output, res.Data, os.Stdout); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s %s sheet", res.Size.Name, res.Style))

	if opts.quiet || output == stdoutPath {
		return nil
	}
	printSuccess("Rendered %s %s", StyleValue.Render(res.Size.Name), res.Style.Describe())
	printStats(res.Primitives, primitiveNoun(res.Style), res.Background)
	printFile(output)
	if p.Format == pipeline.FormatPDF {
		printNextStep("Preview", fmt.Sprintf("%s render --format png --size %s --style %s", appName, res.Size.Name, res.Style))
	}
	return nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == stdoutPath {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

func primitiveNoun(st pattern.Style) string {
	if st == pattern.Dots {
		return "dots"
	}
	return "lines"
}
