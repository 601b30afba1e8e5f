package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/autolens/internal/api"
	"github.com/JaimeStill/autolens/internal/config"
	"github.com/JaimeStill/autolens/internal/infrastructure"
	"github.com/JaimeStill/autolens/pkg/middleware"
	"github.com/JaimeStill/autolens/pkg/module"
	"github.com/JaimeStill/autolens/web/app"
)

// Modules holds the mounted API module and the page routes served natively.
type Modules struct {
	API    *module.Module
	Domain *api.Domain
	routes app.Options
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		Domain: domain,
		routes: app.Options{
			APIBasePath: cfg.API.BasePath,
			UploadField: cfg.API.UploadField,
			Compress:    cfg.Pulse.CompressDuration().Milliseconds(),
			Glow:        cfg.Pulse.GlowDuration().Milliseconds(),
		},
	}, nil
}

func (m *Modules) Mount(router *module.Router, infra *infrastructure.Infrastructure) error {
	router.Mount(m.API)

	pageRoutes, err := app.Routes(m.routes)
	if err != nil {
		return err
	}

	logged := middleware.Logger(infra.Logger.With("module", "app"))
	for i, route := range pageRoutes {
		pageRoutes[i].Handler = logged(route.Handler).ServeHTTP
	}
	router.HandleRoutes(pageRoutes...)

	return nil
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
