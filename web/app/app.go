// Package app serves the upload page: stateless chrome (navbar, footer), the
// demo card with the workflow's anchors, and the page's static assets.
package app

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/autolens/internal/selector"
	"github.com/JaimeStill/autolens/pkg/routes"
	"github.com/JaimeStill/autolens/pkg/web"
)

//go:embed templates static
var files embed.FS

const layout = "layout"

var indexView = web.ViewDef{
	Route:    "/{$}",
	Template: "templates/index.html",
	Title:    "AutoLens · Car Brand Recognition",
}

// PageData is passed to the index view.
type PageData struct {
	UploadURL  string
	Field      string
	Accept     string
	CompressMS int64
	GlowMS     int64
}

// Options configures the page.
type Options struct {
	APIBasePath string
	UploadField string
	Compress    int64
	Glow        int64
}

// Routes returns the page and static asset routes.
func Routes(opts Options) ([]routes.Route, error) {
	ts, err := web.NewTemplateSet(files, "templates/partials/*.html", "", []web.ViewDef{indexView})
	if err != nil {
		return nil, err
	}

	static, err := web.DistServer(files, "static", "/static/")
	if err != nil {
		return nil, err
	}

	data := PageData{
		UploadURL:  opts.APIBasePath + "/upload",
		Field:      opts.UploadField,
		Accept:     selector.Accept,
		CompressMS: opts.Compress,
		GlowMS:     opts.Glow,
	}

	return []routes.Route{
		{
			Method:  "GET",
			Pattern: indexView.Route,
			Handler: ts.PageHandler(layout, indexView, func(*http.Request) any { return data }),
		},
		{
			Method:  "GET",
			Pattern: "/static/",
			Handler: static,
		},
	}, nil
}
