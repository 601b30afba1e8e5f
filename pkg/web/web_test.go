package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/autolens/pkg/web"
)

var testFS = fstest.MapFS{
	"templates/partials/layout.html": {Data: []byte(
		`{{ define "layout" }}<title>{{ .Title }}</title>{{ template "nav" }}<main>{{ template "content" . }}</main>{{ end }}`,
	)},
	"templates/partials/nav.html": {Data: []byte(`{{ define "nav" }}<nav>home</nav>{{ end }}`)},
	"templates/index.html":        {Data: []byte(`{{ define "content" }}index {{ .BasePath }} {{ .Data }}{{ end }}`)},
	"templates/about.html":        {Data: []byte(`{{ define "content" }}about{{ end }}`)},
	"static/app.css":              {Data: []byte("body{}")},
}

var views = []web.ViewDef{
	{Route: "/{$}", Template: "templates/index.html", Title: "Home"},
	{Route: "/about", Template: "templates/about.html", Title: "About"},
}

func TestTemplateSetRender(t *testing.T) {
	ts, err := web.NewTemplateSet(testFS, "templates/partials/*.html", "/app", views)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}

	tests := []struct {
		name string
		view web.ViewDef
		data web.DataFunc
		want []string
	}{
		{
			name: "index with data",
			view: views[0],
			data: func(*http.Request) any { return "payload" },
			want: []string{"<title>Home</title>", "<nav>home</nav>", "index /app payload"},
		},
		{
			name: "about without data",
			view: views[1],
			want: []string{"<title>About</title>", "<main>about</main>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ts.PageHandler("layout", tt.view, tt.data)(rec, httptest.NewRequest("GET", "/", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("content-type: got %s", ct)
			}
			for _, w := range tt.want {
				if !strings.Contains(rec.Body.String(), w) {
					t.Errorf("body missing %q: %s", w, rec.Body.String())
				}
			}
		})
	}
}

func TestTemplateSetUnknownView(t *testing.T) {
	ts, err := web.NewTemplateSet(testFS, "templates/partials/*.html", "", views)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}

	err = ts.Render(httptest.NewRecorder(), "layout", "templates/missing.html", web.ViewData{})
	if err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestNewTemplateSetMissingView(t *testing.T) {
	_, err := web.NewTemplateSet(testFS, "templates/partials/*.html", "", []web.ViewDef{
		{Route: "/", Template: "templates/nope.html"},
	})
	if err == nil {
		t.Error("expected parse error for missing view template")
	}
}

func TestDistServer(t *testing.T) {
	handler, err := web.DistServer(testFS, "static", "/static/")
	if err != nil {
		t.Fatalf("DistServer() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/static/app.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("body: got %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control: got %s, want no-cache", cc)
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/static/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status: got %d, want 404", rec.Code)
	}
}
