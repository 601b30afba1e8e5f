package classifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/selector"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFile() *selector.File {
	return &selector.File{
		Name:        "car.png",
		ContentType: "image/png",
		Size:        4,
		Data:        []byte("\x89PNG"),
	}
}

func newClient(t *testing.T, origin string) classifier.Client {
	t.Helper()
	cfg := &classifier.Config{Origin: origin}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return classifier.New(cfg, nil, discardLogger())
}

func TestClassifySuccess(t *testing.T) {
	var calls atomic.Int32
	var gotField, gotName, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("request: got %s %s, want POST /predict", r.Method, r.URL.Path)
		}
		f, h, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		gotField = "file"
		gotName = h.Filename
		gotType = h.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predicted_class":"Toyota","confidence":94}`)
	}))
	defer srv.Close()

	result, err := newClient(t, srv.URL).Classify(context.Background(), testFile())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("calls: got %d, want 1", got)
	}
	if gotField != "file" || gotName != "car.png" || gotType != "image/png" {
		t.Errorf("part: got field=%s name=%s type=%s", gotField, gotName, gotType)
	}
	if string(gotBody) != "\x89PNG" {
		t.Errorf("body: got %q", gotBody)
	}
	if result.Label != "Toyota" {
		t.Errorf("label: got %s, want Toyota", result.Label)
	}
	if got := result.Percent(); got != "94%" {
		t.Errorf("percent: got %s, want 94%%", got)
	}
}

func TestClassifyIgnoresEmptyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"","predicted_class":"BMW","confidence":87.5}`)
	}))
	defer srv.Close()

	result, err := newClient(t, srv.URL).Classify(context.Background(), testFile())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if result.Label != "BMW" || result.Percent() != "87.5%" {
		t.Errorf("result: got %s / %s, want BMW / 87.5%%", result.Label, result.Percent())
	}
}

func TestClassifyResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind classifier.Kind
		wantMsg  string
	}{
		{"error body", http.StatusOK, `{"error":"bad image"}`, classifier.KindRejected, "bad image"},
		{"error body on 400", http.StatusBadRequest, `{"error":"bad image"}`, classifier.KindRejected, "bad image"},
		{"error body on 500", http.StatusInternalServerError, `{"error":"model failed"}`, classifier.KindRejected, "model failed"},
		{"empty error on 200", http.StatusOK, `{"error":""}`, classifier.KindTransport, "unexpected response shape"},
		{"empty error on 500", http.StatusInternalServerError, `{"error":""}`, classifier.KindTransport, "unexpected status 500"},
		{"malformed body", http.StatusOK, `not json`, classifier.KindTransport, "malformed response body"},
		{"missing fields", http.StatusOK, `{"predicted_class":"Toyota"}`, classifier.KindTransport, "unexpected response shape"},
		{"status without error body", http.StatusBadGateway, `upstream down`, classifier.KindTransport, "unexpected status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL).Classify(context.Background(), testFile())

			var cerr *classifier.Error
			if !errors.As(err, &cerr) {
				t.Fatalf("error: got %v, want *classifier.Error", err)
			}
			if cerr.Kind != tt.wantKind {
				t.Errorf("kind: got %s, want %s", cerr.Kind, tt.wantKind)
			}
			if cerr.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", cerr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClassifyConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = newClient(t, "http://"+addr).Classify(context.Background(), testFile())
	if !errors.Is(err, classifier.ErrTransport) {
		t.Errorf("error: got %v, want transport", err)
	}
}

func TestClassifyCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv.URL).Classify(ctx, testFile())
	if !errors.Is(err, classifier.ErrTransport) {
		t.Errorf("error: got %v, want transport", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause: got %v, want deadline exceeded", err)
	}
}
