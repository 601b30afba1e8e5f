// Package api assembles the API module: the upload workflow, preview
// endpoints, and the API document.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/autolens/internal/config"
	"github.com/JaimeStill/autolens/internal/infrastructure"
	"github.com/JaimeStill/autolens/pkg/middleware"
	"github.com/JaimeStill/autolens/pkg/module"
	"github.com/JaimeStill/autolens/pkg/openapi"
)

// NewModule creates the API module with its domain handlers, API document,
// and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	specBytes, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("marshal api document: %w", err)
	}

	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime, specBytes)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
