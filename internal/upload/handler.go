package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/autolens/internal/selector"
	"github.com/JaimeStill/autolens/pkg/handlers"
	"github.com/JaimeStill/autolens/pkg/routes"
)

// Handler exposes the workflow over HTTP. A POST is one user trigger carrying
// the completed file-choice prompt.
type Handler struct {
	workflow      *Workflow
	logger        *slog.Logger
	field         string
	maxUploadSize int64
}

// NewHandler creates a Handler reading the chosen file from field.
func NewHandler(workflow *Workflow, logger *slog.Logger, field string, maxUploadSize int64) *Handler {
	return &Handler{
		workflow:      workflow,
		logger:        logger.With("handler", "upload"),
		field:         field,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/upload",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.State},
			{Method: "POST", Pattern: "", Handler: h.Trigger},
		},
	}
}

// State returns the current workflow snapshot.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.workflow.Snapshot())
}

// Trigger runs one upload attempt and responds with its snapshot. Rendered
// failures (transport, rejected) are successful responses; validation,
// supersession, and oversized uploads carry their error with the snapshot.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	sel := selector.FromRequest(r, h.field, h.maxUploadSize)

	snap, err := h.workflow.Trigger(r.Context(), sel)
	status := MapHTTPStatus(err)

	if status == http.StatusInternalServerError {
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	resp := struct {
		Snapshot
		Message string `json:"message,omitempty"`
	}{Snapshot: snap}

	if err != nil && !errors.Is(err, selector.ErrNoSelection) {
		resp.Message = err.Error()
	}

	handlers.RespondJSON(w, status, resp)
}
