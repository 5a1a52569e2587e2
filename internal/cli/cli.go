// Package cli implements the handbook command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/handbook/internal/config"
	"github.com/matzehuels/handbook/pkg/buildinfo"
	"github.com/matzehuels/handbook/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "handbook"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means the default location.
	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Handbook renders printable grid, ruled and dot-grid sheets",
		Long: `Handbook renders printable journal sheets (A5, A6, B6) with a grid,
ruled-line or dot pattern drawn over an optional translucent background image.

Sheets can be written to disk with "render" or served to a web form with "serve".`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/handbook/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sizesCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads .env, the config file and the environment.
func (c *CLI) loadConfig() error {
	config.LoadDotEnv()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "addr", cfg.Server.Addr, "size", cfg.Defaults.Size, "style", cfg.Defaults.Style)
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
