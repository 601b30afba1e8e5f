// Package config loads layered TOML configuration with environment overrides
// and finalizes every section before the service starts.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/upload"
	"github.com/JaimeStill/autolens/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAutolensEnv             = "AUTOLENS_ENV"
	EnvAutolensShutdownTimeout = "AUTOLENS_SHUTDOWN_TIMEOUT"
	EnvAutolensVersion         = "AUTOLENS_VERSION"
	EnvAutolensLogLevel        = "AUTOLENS_LOG_LEVEL"
)

var storageEnv = &storage.Env{
	ContainerName:    "AUTOLENS_STORAGE_CONTAINER_NAME",
	ConnectionString: "AUTOLENS_STORAGE_CONNECTION_STRING",
}

var classifierEnv = &classifier.Env{
	Origin:  "AUTOLENS_CLASSIFIER_ORIGIN",
	Path:    "AUTOLENS_CLASSIFIER_PATH",
	Field:   "AUTOLENS_CLASSIFIER_FIELD",
	Timeout: "AUTOLENS_CLASSIFIER_TIMEOUT",
}

var pulseEnv = &upload.Env{
	Compress: "AUTOLENS_PULSE_COMPRESS",
	Glow:     "AUTOLENS_PULSE_GLOW",
}

// Config is the root configuration for the autolens service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	API             APIConfig         `toml:"api"`
	Classifier      classifier.Config `toml:"classifier"`
	Preview         PreviewConfig     `toml:"preview"`
	Pulse           upload.Config     `toml:"pulse"`
	Storage         storage.Config    `toml:"storage"`
	LogLevel        string            `toml:"log_level"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the AUTOLENS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAutolensEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Without a config.toml, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Parse decodes TOML config data without finalizing it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Classifier.Merge(&overlay.Classifier)
	c.Preview.Merge(&overlay.Preview)
	c.Pulse.Merge(&overlay.Pulse)
	c.Storage.Merge(&overlay.Storage)
}

// Finalize applies defaults, environment overrides, and validation to every
// section. Storage is only finalized when previews are kept in blob storage.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Preview.Finalize(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := c.Pulse.Finalize(pulseEnv); err != nil {
		return fmt.Errorf("pulse: %w", err)
	}
	if c.Preview.Store == PreviewStoreBlob {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAutolensShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAutolensVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvAutolensLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func overlayPath() string {
	if env := os.Getenv(EnvAutolensEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
