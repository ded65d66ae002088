// Package config resolves server settings from flags and the environment.
// Flags win over environment variables, which win over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode is the build mode of the demo site.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ProductionBasePath is where the demo is published in production mode.
const ProductionBasePath = "/vuex-form-gen/"

// Environment variable names.
const (
	EnvMode         = "GENFORM_MODE"
	EnvAddr         = "GENFORM_ADDR"
	EnvBasePath     = "GENFORM_BASE_PATH"
	EnvTheme        = "GENFORM_THEME"
	EnvThemeVariant = "GENFORM_THEME_VARIANT"
	EnvLogLevel     = "GENFORM_LOG_LEVEL"
	EnvFormsDir     = "GENFORM_FORMS_DIR"
)

// Config holds the resolved settings.
type Config struct {
	Mode          Mode
	Addr          string
	BasePath      string
	Theme         string
	ThemeVariant  string
	LogLevel      string
	FormsDir      string
	ShutdownGrace time.Duration
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Mode:          ModeDevelopment,
		Addr:          ":8080",
		Theme:         "genform",
		ThemeVariant:  "light",
		LogLevel:      "info",
		ShutdownGrace: 5 * time.Second,
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load parses args (without the program name) over the environment.
func Load(args []string, lookup LookupFunc) (Config, error) {
	cfg := Default()
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	env := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	mode := string(cfg.Mode)
	env(EnvMode, &mode)
	env(EnvAddr, &cfg.Addr)
	env(EnvBasePath, &cfg.BasePath)
	env(EnvTheme, &cfg.Theme)
	env(EnvThemeVariant, &cfg.ThemeVariant)
	env(EnvLogLevel, &cfg.LogLevel)
	env(EnvFormsDir, &cfg.FormsDir)

	fs := flag.NewFlagSet("genform-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&mode, "mode", mode, "Build mode: development or production")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.BasePath, "base-path", cfg.BasePath, "Base path override (defaults from mode)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Theme name")
	fs.StringVar(&cfg.ThemeVariant, "theme-variant", cfg.ThemeVariant, "Theme variant")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.FormsDir, "forms", cfg.FormsDir, "Directory of form definitions overriding the embedded demo forms")
	fs.DurationVar(&cfg.ShutdownGrace, "grace", cfg.ShutdownGrace, "Shutdown grace period")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(mode)))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.BasePath = cfg.ResolvedBasePath()
	return cfg, nil
}

// Validate checks the mode and log level.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.ShutdownGrace < 0 {
		return errors.New("config: shutdown grace must not be negative")
	}
	return nil
}

// ResolvedBasePath returns the explicit base path or the mode's default,
// normalised to start and end with a slash.
func (c Config) ResolvedBasePath() string {
	base := strings.TrimSpace(c.BasePath)
	if base == "" {
		if c.Mode == ModeProduction {
			base = ProductionBasePath
		} else {
			base = "/"
		}
	}
	return NormalizeBasePath(base)
}

// NormalizeBasePath forces a leading and trailing slash.
func NormalizeBasePath(base string) string {
	base = "/" + strings.Trim(strings.TrimSpace(base), "/")
	if base != "/" {
		base += "/"
	}
	return base
}

// NewLogger builds a logrus logger for the configured level. Production mode
// logs JSON.
func (c Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if c.Mode == ModeProduction {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
