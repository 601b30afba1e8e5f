package upload

import (
	"fmt"
	"os"
	"time"
)

// Config holds the pulse durations applied to the pulse container.
type Config struct {
	Compress string `toml:"compress"`
	Glow     string `toml:"glow"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Compress string
	Glow     string
}

// CompressDuration returns Compress as a time.Duration.
func (c *Config) CompressDuration() time.Duration {
	d, _ := time.ParseDuration(c.Compress)
	return d
}

// GlowDuration returns Glow as a time.Duration.
func (c *Config) GlowDuration() time.Duration {
	d, _ := time.ParseDuration(c.Glow)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.Compress == "" {
		c.Compress = "150ms"
	}
	if c.Glow == "" {
		c.Glow = "800ms"
	}
	if env != nil {
		if v := os.Getenv(env.Compress); v != "" {
			c.Compress = v
		}
		if v := os.Getenv(env.Glow); v != "" {
			c.Glow = v
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Compress != "" {
		c.Compress = overlay.Compress
	}
	if overlay.Glow != "" {
		c.Glow = overlay.Glow
	}
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.Compress); err != nil || d <= 0 {
		return fmt.Errorf("invalid compress duration: %q", c.Compress)
	}
	if d, err := time.ParseDuration(c.Glow); err != nil || d <= 0 {
		return fmt.Errorf("invalid glow duration: %q", c.Glow)
	}
	return nil
}
