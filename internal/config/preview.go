package config

import (
	"fmt"
	"os"
)

// Preview store backends.
const (
	PreviewStoreMemory = "memory"
	PreviewStoreBlob   = "blob"
)

// PreviewConfig selects where preview payloads are held between acquisition
// and release.
type PreviewConfig struct {
	Store     string `toml:"store"`
	KeyPrefix string `toml:"key_prefix"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PreviewConfig) Finalize() error {
	if c.Store == "" {
		c.Store = PreviewStoreMemory
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "previews"
	}
	if v := os.Getenv("AUTOLENS_PREVIEW_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("AUTOLENS_PREVIEW_KEY_PREFIX"); v != "" {
		c.KeyPrefix = v
	}

	switch c.Store {
	case PreviewStoreMemory, PreviewStoreBlob:
		return nil
	default:
		return fmt.Errorf("unknown store: %q", c.Store)
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *PreviewConfig) Merge(overlay *PreviewConfig) {
	if overlay.Store != "" {
		c.Store = overlay.Store
	}
	if overlay.KeyPrefix != "" {
		c.KeyPrefix = overlay.KeyPrefix
	}
}
