package classifier

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the classification endpoint parameters.
type Config struct {
	Origin  string `toml:"origin"`
	Path    string `toml:"path"`
	Field   string `toml:"field"`
	Timeout string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Origin  string
	Path    string
	Field   string
	Timeout string
}

// Endpoint returns the absolute URL of the predict endpoint.
func (c *Config) Endpoint() string {
	return strings.TrimSuffix(c.Origin, "/") + c.Path
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Origin != "" {
		c.Origin = overlay.Origin
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Field != "" {
		c.Field = overlay.Field
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Origin == "" {
		c.Origin = "http://localhost:8000"
	}
	if c.Path == "" {
		c.Path = "/predict"
	}
	if c.Field == "" {
		c.Field = "file"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.Origin, &c.Origin)
	set(env.Path, &c.Path)
	set(env.Field, &c.Field)
	set(env.Timeout, &c.Timeout)
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid origin: %q", c.Origin)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %q", c.Path)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}
