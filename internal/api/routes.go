package api

import (
	"net/http"

	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/internal/upload"
	"github.com/JaimeStill/autolens/pkg/openapi"
	"github.com/JaimeStill/autolens/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, rt *Runtime, specBytes []byte) {
	cfg := rt.Config

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	routes.Register(
		mux,
		upload.NewHandler(
			domain.Workflow,
			rt.Logger,
			cfg.API.UploadField,
			cfg.API.MaxUploadSizeBytes(),
		).Routes(),
		preview.NewHandler(domain.Previews, rt.Logger).Routes(),
	)
}
