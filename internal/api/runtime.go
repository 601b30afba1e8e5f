package api

import (
	"github.com/JaimeStill/autolens/internal/config"
	"github.com/JaimeStill/autolens/internal/infrastructure"
)

// Runtime extends Infrastructure with the configuration API systems need.
type Runtime struct {
	*infrastructure.Infrastructure
	Config *config.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
		},
		Config: cfg,
	}
}
