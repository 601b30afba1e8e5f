package preview

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/autolens/pkg/handlers"
	"github.com/JaimeStill/autolens/pkg/routes"
)

// Handler serves live preview payloads.
type Handler struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler creates a Handler backed by renderer.
func NewHandler(renderer *Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		renderer: renderer,
		logger:   logger.With("handler", "previews"),
	}
}

// Routes returns the route group definition for preview endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/previews",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Get},
			{Method: "HEAD", Pattern: "/{id}", Handler: h.Head},
		},
	}
}

// Get streams the preview identified by the id path parameter.
// Revoked previews are not found.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.renderer.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer item.Body.Close()

	w.Header().Set("Content-Type", item.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	if item.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(item.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	io.Copy(w, item.Body)
}

// Head reports whether the preview identified by the id path parameter is
// still available, without a body.
func (h *Handler) Head(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Stat(r.Context(), r.PathValue("id")); err != nil {
		status := MapHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("preview check failed", "error", err)
		}
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}
