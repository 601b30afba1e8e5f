// Package web renders server-side pages from embedded Go templates and serves
// their static assets.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a page with its route, template file, and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData is passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// DataFunc produces per-request view data for a page.
type DataFunc func(r *http.Request) any

// TemplateSet holds pre-parsed templates keyed by view template name.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the shared templates matched by sharedGlob (layouts and
// stateless partials) once, then clones them for each view so views cannot
// redefine each other's blocks. Parsing fails fast at startup.
func NewTemplateSet(fsys fs.FS, sharedGlob, basePath string, views []ViewDef) (*TemplateSet, error) {
	shared, err := template.ParseFS(fsys, sharedGlob)
	if err != nil {
		return nil, fmt.Errorf("parse shared templates: %w", err)
	}

	viewTemplates := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := shared.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(fsys, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		viewTemplates[v.Template] = t
	}

	return &TemplateSet{
		views:    viewTemplates,
		basePath: basePath,
	}, nil
}

// PageHandler returns an HTTP handler that renders the given view inside layout.
// data may be nil.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef, data DataFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vd := ViewData{
			Title:    view.Title,
			BasePath: ts.basePath,
		}
		if data != nil {
			vd.Data = data(r)
		}
		if err := ts.Render(w, layout, view.Template, vd); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// Render executes the named layout template with the given view data.
func (ts *TemplateSet) Render(w http.ResponseWriter, layoutName, viewPath string, data ViewData) error {
	t, ok := ts.views[viewPath]
	if !ok {
		return fmt.Errorf("template not found: %s", viewPath)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, layoutName, data)
}
