package api

import (
	"context"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/internal/upload"
)

// Domain holds the systems that make up the upload workflow.
type Domain struct {
	Previews *preview.Renderer
	Workflow *upload.Workflow
}

// NewDomain creates the preview renderer, classification client, and workflow
// from the API runtime, and registers workflow teardown on shutdown.
func NewDomain(rt *Runtime) *Domain {
	cfg := rt.Config

	var store preview.Store = preview.NewMemoryStore()
	if rt.Storage != nil {
		store = preview.NewBlobStore(rt.Storage, cfg.Preview.KeyPrefix)
	}

	renderer := preview.NewRenderer(store, cfg.API.BasePath+"/previews", rt.Logger)
	client := classifier.New(&cfg.Classifier, nil, rt.Logger)
	workflow := upload.New(&cfg.Pulse, renderer, client, rt.Logger)

	rt.Lifecycle.OnShutdown(func() {
		<-rt.Lifecycle.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		if err := workflow.Close(ctx); err != nil {
			rt.Logger.Error("workflow close failed", "error", err)
			return
		}
		rt.Logger.Info("workflow closed")
	})

	return &Domain{
		Previews: renderer,
		Workflow: workflow,
	}
}
