// Package config loads handbook settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, then
// HANDBOOK_* environment variables (a .env file in the working directory
// is read into the environment first). Command-line flags are applied by
// the CLI on top of the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/pipeline"
)

// Config is the complete handbook configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Render   Render   `toml:"render"`
	Defaults Defaults `toml:"defaults"`
}

// Server configures the HTTP endpoint.
type Server struct {
	Addr                string `toml:"addr"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `toml:"idle_timeout_seconds"`
	MaxUploadMB         int    `toml:"max_upload_mb"`
}

// Render bounds the work done per sheet.
type Render struct {
	MaxBackgroundEdge int     `toml:"max_background_edge"`
	PreviewResolution float64 `toml:"preview_resolution"`
}

// Defaults are the form values used when a request or command omits them.
type Defaults struct {
	Size    string  `toml:"size"`
	Style   string  `toml:"style"`
	Color   string  `toml:"color"`
	Spacing float64 `toml:"spacing"`
	Margin  float64 `toml:"margin"`
	Opacity float64 `toml:"opacity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:                "127.0.0.1:5000",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
			IdleTimeoutSeconds:  60,
			MaxUploadMB:         16,
		},
		Render: Render{
			MaxBackgroundEdge: pipeline.DefaultMaxBackgroundEdge,
			PreviewResolution: 4,
		},
		Defaults: Defaults{
			Size:    pipeline.DefaultSize,
			Style:   string(pipeline.DefaultStyle),
			Color:   pipeline.DefaultColor,
			Spacing: pipeline.DefaultSpacing,
			Margin:  pipeline.DefaultMargin,
			Opacity: pipeline.DefaultOpacity,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/handbook/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "handbook", "config.toml"), nil
}

// LoadDotEnv reads .env files from the working directory into the
// environment. Missing files are not an error.
func LoadDotEnv() {
	_ = godotenv.Load(".env", ".env.local")
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit || !os.IsNotExist(err) {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
			}
		} else if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return nil
}

// applyEnv overlays HANDBOOK_* variables. PORT is honored for platforms
// that assign one, unless HANDBOOK_ADDR is set.
func (c *Config) applyEnv() error {
	if port := getEnv("PORT", ""); port != "" {
		c.Server.Addr = ":" + port
	}
	c.Server.Addr = getEnv("HANDBOOK_ADDR", c.Server.Addr)

	ints := []struct {
		key string
		dst *int
	}{
		{"HANDBOOK_READ_TIMEOUT_SECONDS", &c.Server.ReadTimeoutSeconds},
		{"HANDBOOK_WRITE_TIMEOUT_SECONDS", &c.Server.WriteTimeoutSeconds},
		{"HANDBOOK_IDLE_TIMEOUT_SECONDS", &c.Server.IdleTimeoutSeconds},
		{"HANDBOOK_MAX_UPLOAD_MB", &c.Server.MaxUploadMB},
		{"HANDBOOK_MAX_BACKGROUND_EDGE", &c.Render.MaxBackgroundEdge},
	}
	for _, e := range ints {
		v, err := getEnvInt(e.key, *e.dst)
		if err != nil {
			return err
		}
		*e.dst = v
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"HANDBOOK_PREVIEW_RESOLUTION", &c.Render.PreviewResolution},
		{"HANDBOOK_SPACING", &c.Defaults.Spacing},
		{"HANDBOOK_MARGIN", &c.Defaults.Margin},
		{"HANDBOOK_OPACITY", &c.Defaults.Opacity},
	}
	for _, e := range floats {
		v, err := getEnvFloat(e.key, *e.dst)
		if err != nil {
			return err
		}
		*e.dst = v
	}

	c.Defaults.Size = getEnv("HANDBOOK_SIZE", c.Defaults.Size)
	c.Defaults.Style = getEnv("HANDBOOK_STYLE", c.Defaults.Style)
	c.Defaults.Color = getEnv("HANDBOOK_COLOR", c.Defaults.Color)
	return nil
}

// Validate rejects settings that would make every request fail.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr must not be empty")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Render.PreviewResolution <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.preview_resolution must be positive, got %g", c.Render.PreviewResolution)
	}
	opts := c.Options()
	return opts.ValidateAndSetDefaults()
}

// Options returns pipeline options seeded with the configured defaults.
func (c Config) Options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Size = c.Defaults.Size
	opts.Style = c.Defaults.Style
	opts.Color = c.Defaults.Color
	opts.Spacing = c.Defaults.Spacing
	opts.Margin = c.Defaults.Margin
	opts.BackgroundOpacity = c.Defaults.Opacity
	opts.MaxBackgroundEdge = c.Render.MaxBackgroundEdge
	return opts
}

// MaxUploadBytes returns the upload limit in bytes.
func (s Server) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// ReadTimeout returns the configured read timeout.
func (s Server) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the configured write timeout.
func (s Server) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the configured idle timeout.
func (s Server) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be an integer", key)
	}
	return i, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a number", key)
	}
	return f, nil
}
