package classifier_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/autolens/internal/classifier"
)

func TestErrorIs(t *testing.T) {
	cause := errors.New("dial failed")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation", classifier.Validation("not an image"), classifier.ErrValidation, true},
		{"transport", classifier.Transport("request failed", cause), classifier.ErrTransport, true},
		{"transport cause", classifier.Transport("request failed", cause), cause, true},
		{"rejected", classifier.Rejected("bad image"), classifier.ErrRejected, true},
		{"kind mismatch", classifier.Rejected("bad image"), classifier.ErrTransport, false},
		{"wrapped", fmt.Errorf("upload: %w", classifier.Rejected("x")), classifier.ErrRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", classifier.Validation("x"), http.StatusUnsupportedMediaType},
		{"rejected", classifier.Rejected("x"), http.StatusUnprocessableEntity},
		{"transport", classifier.Transport("x", nil), http.StatusBadGateway},
		{"other", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("status: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{94, "94%"},
		{87.5, "87.5%"},
		{0, "0%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := classifier.Classification{Label: "Toyota", Confidence: tt.confidence}
			if got := c.Percent(); got != tt.want {
				t.Errorf("percent: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_ORIGIN", "http://classifier:9000/")

	cfg := &classifier.Config{}
	err := cfg.Finalize(&classifier.Env{Origin: "TEST_CLASSIFIER_ORIGIN"})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if got := cfg.Endpoint(); got != "http://classifier:9000/predict" {
		t.Errorf("endpoint: got %s", got)
	}
	if cfg.Field != "file" {
		t.Errorf("field: got %s, want file", cfg.Field)
	}
	if cfg.TimeoutDuration().Seconds() != 30 {
		t.Errorf("timeout: got %s, want 30s", cfg.TimeoutDuration())
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  classifier.Config
	}{
		{"relative origin", classifier.Config{Origin: "localhost:8000"}},
		{"path without slash", classifier.Config{Path: "predict"}},
		{"bad timeout", classifier.Config{Timeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
