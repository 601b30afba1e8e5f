package api

import (
	"github.com/JaimeStill/autolens/internal/config"
	"github.com/JaimeStill/autolens/internal/selector"
	"github.com/JaimeStill/autolens/internal/upload"
	"github.com/JaimeStill/autolens/pkg/openapi"
)

var stateEnum = []any{
	upload.Idle.String(),
	upload.AwaitingFile.String(),
	upload.Previewing.String(),
	upload.Submitting.String(),
	upload.Succeeded.String(),
	upload.Failed.String(),
}

// buildSpec describes the upload and preview endpoints.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Snapshot": {
			Type:     "object",
			Required: []string{"session_id", "state", "view"},
			Properties: map[string]*openapi.Schema{
				"session_id": {Type: "integer", Description: "Active session token; 0 before the first session"},
				"state":      {Type: "string", Enum: stateEnum},
				"filename":   {Type: "string"},
				"result": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"label":      {Type: "string", Example: "Toyota"},
						"confidence": {Type: "number", Example: 94},
					},
				},
				"error": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"kind":    {Type: "string", Enum: []any{"validation", "transport", "rejected"}},
						"message": {Type: "string"},
					},
				},
				"view":    openapi.SchemaRef("View"),
				"message": {Type: "string", Description: "Error detail on non-rendered outcomes"},
			},
		},
		"View": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"preview":    {Type: "string", Description: "Preview URL"},
				"label":      {Type: "string", Example: "Toyota"},
				"confidence": {Type: "string", Example: "94%"},
				"notice":     {Type: "string", Example: upload.NoticeInvalidImage},
				"pulses": {
					Type:  "array",
					Items: &openapi.Schema{Type: "string", Enum: []any{string(upload.PulseCompress), string(upload.PulseGlow)}},
				},
			},
		},
	})

	spec.Components.AddResponses(map[string]*openapi.Response{
		"PreviewImage": {
			Description: "Preview image bytes",
			Content: map[string]*openapi.MediaType{
				selector.Accept: {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
			},
		},
	})

	spec.Paths["/upload"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Current workflow snapshot",
			Tags:    []string{"Upload"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Snapshot", "Snapshot"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload an image for classification",
			Description: "Runs one upload attempt. Classification failures are rendered into the snapshot with status 200.",
			Tags:        []string{"Upload"},
			RequestBody: openapi.RequestBodyMultipart(cfg.API.UploadField, "Image file ("+selector.Accept+")"),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Terminal snapshot", "Snapshot"),
				409: openapi.ResponseRef("Conflict"),
				413: openapi.ResponseRef("PayloadTooLarge"),
				415: openapi.ResponseRef("UnsupportedMediaType"),
				503: openapi.ResponseRef("Unavailable"),
			},
		},
	}

	previewID := []*openapi.Parameter{
		{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
	}
	spec.Paths["/previews/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Fetch a live preview",
			Tags:       []string{"Previews"},
			Parameters: previewID,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseRef("PreviewImage"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Head: &openapi.Operation{
			Summary:    "Check that a preview is still available",
			Tags:       []string{"Previews"},
			Parameters: previewID,
			Responses: map[int]*openapi.Response{
				200: {Description: "Preview is live"},
				404: {Description: "Preview was released"},
			},
		},
	}

	return spec
}
