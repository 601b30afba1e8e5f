package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/internal/selector"
)

type gatedClient struct {
	started chan struct{}
	release chan struct{}
	first   bool
}

func (c *gatedClient) Classify(ctx context.Context, _ *selector.File) (*classifier.Classification, error) {
	if !c.first {
		c.first = true
		close(c.started)
		<-c.release
		return &classifier.Classification{Label: "Honda", Confidence: 51}, nil
	}
	return &classifier.Classification{Label: "Toyota", Confidence: 94}, nil
}

func TestSupersededSessionIsTerminal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	client := &gatedClient{started: make(chan struct{}), release: make(chan struct{})}
	w := New(cfg, preview.NewRenderer(preview.NewMemoryStore(), "/api/previews", logger), client, logger)

	file := func(name string) selector.Selector {
		return selector.Static(&selector.File{Name: name, ContentType: "image/jpeg", Size: 4, Data: []byte("jpeg")})
	}

	done := make(chan error, 1)
	go func() {
		_, err := w.Trigger(context.Background(), file("old.jpg"))
		done <- err
	}()
	<-client.started

	w.mu.Lock()
	old := w.active
	w.mu.Unlock()

	if _, err := w.Trigger(context.Background(), file("new.jpg")); err != nil {
		t.Fatalf("second trigger: %v", err)
	}

	w.mu.Lock()
	if old.State != Superseded {
		t.Errorf("old session state: got %s, want superseded", old.State)
	}
	if old.File != nil {
		t.Error("old session should drop its file")
	}
	w.mu.Unlock()

	close(client.release)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("old trigger: got %v, want ErrSuperseded", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if old.State != Superseded || old.Result != nil {
		t.Errorf("old session after resolve: state %s result %+v", old.State, old.Result)
	}
	if w.active.State != Succeeded {
		t.Errorf("active session: got %s, want succeeded", w.active.State)
	}
}
