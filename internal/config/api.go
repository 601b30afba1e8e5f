package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/autolens/pkg/formatting"
	"github.com/JaimeStill/autolens/pkg/middleware"
	"github.com/JaimeStill/autolens/pkg/openapi"
)

const defaultMaxUploadSize = 10 * 1024 * 1024

var corsEnv = &middleware.CORSEnv{
	Enabled:          "AUTOLENS_CORS_ENABLED",
	Origins:          "AUTOLENS_CORS_ORIGINS",
	AllowedMethods:   "AUTOLENS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "AUTOLENS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "AUTOLENS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "AUTOLENS_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "AUTOLENS_OPENAPI_TITLE",
	Description: "AUTOLENS_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, upload limits, CORS, and API document settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	UploadField   string                `toml:"upload_field"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.UploadField != "" {
		c.UploadField = overlay.UploadField
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.UploadField == "" {
		c.UploadField = "file"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("AUTOLENS_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("AUTOLENS_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv("AUTOLENS_API_UPLOAD_FIELD"); v != "" {
		c.UploadField = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
