package preview_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/internal/selector"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingStore wraps a MemoryStore and counts acquisitions and releases per id.
type countingStore struct {
	*preview.MemoryStore
	mu       sync.Mutex
	puts     int
	releases map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{
		MemoryStore: preview.NewMemoryStore(),
		releases:    make(map[string]int),
	}
}

func (s *countingStore) Put(ctx context.Context, id, contentType string, data []byte) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, id, contentType, data)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.releases[id]++
	s.mu.Unlock()
	return s.MemoryStore.Delete(ctx, id)
}

func (s *countingStore) totalReleases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.releases {
		total += n
	}
	return total
}

func imageFile(name string) *selector.File {
	return &selector.File{Name: name, ContentType: "image/png", Size: 3, Data: []byte("png")}
}

func TestRenderRef(t *testing.T) {
	store := newCountingStore()
	r := preview.NewRenderer(store, "/api/previews/", discardLogger())

	ref, err := r.Render(context.Background(), imageFile("a.png"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if ref.IsZero() {
		t.Fatal("ref should not be zero")
	}
	if ref.URL != "/api/previews/"+ref.ID {
		t.Errorf("url: got %s", ref.URL)
	}
	if !r.Live(ref.ID) {
		t.Error("ref should be live")
	}

	item, err := r.Open(context.Background(), ref.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer item.Body.Close()

	body, _ := io.ReadAll(item.Body)
	if string(body) != "png" || item.ContentType != "image/png" {
		t.Errorf("item: got %q %s", body, item.ContentType)
	}
}

func TestRenderReleasesPrevious(t *testing.T) {
	store := newCountingStore()
	r := preview.NewRenderer(store, "/api/previews", discardLogger())
	ctx := context.Background()

	first, _ := r.Render(ctx, imageFile("a.png"))
	second, err := r.Render(ctx, imageFile("b.png"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if r.Live(first.ID) {
		t.Error("superseded ref should be released")
	}
	if !r.Live(second.ID) {
		t.Error("current ref should be live")
	}
	if got := store.releases[first.ID]; got != 1 {
		t.Errorf("first releases: got %d, want 1", got)
	}
	if _, err := r.Open(ctx, first.ID); !errors.Is(err, preview.ErrNotFound) {
		t.Errorf("open released: got %v, want ErrNotFound", err)
	}
}

func TestRevokeOnce(t *testing.T) {
	store := newCountingStore()
	r := preview.NewRenderer(store, "/api/previews", discardLogger())
	ctx := context.Background()

	ref, _ := r.Render(ctx, imageFile("a.png"))

	if err := r.Revoke(ctx, ref); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := r.Revoke(ctx, ref); !errors.Is(err, preview.ErrRevoked) {
		t.Errorf("second revoke: got %v, want ErrRevoked", err)
	}
	if err := r.Close(ctx); err != nil {
		t.Errorf("close: %v", err)
	}

	if got := store.releases[ref.ID]; got != 1 {
		t.Errorf("releases: got %d, want 1", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	store := newCountingStore()
	r := preview.NewRenderer(store, "/api/previews", discardLogger())

	_, err := r.Render(context.Background(), &selector.File{Name: "a.png", ContentType: "image/png"})
	if !errors.Is(err, preview.ErrEmpty) {
		t.Errorf("error: got %v, want ErrEmpty", err)
	}
	if store.puts != 0 {
		t.Errorf("puts: got %d, want 0", store.puts)
	}
}

func TestAcquireReleaseBalance(t *testing.T) {
	store := newCountingStore()
	r := preview.NewRenderer(store, "/api/previews", discardLogger())
	ctx := context.Background()

	for range 10 {
		if _, err := r.Render(ctx, imageFile("a.png")); err != nil {
			t.Fatalf("render: %v", err)
		}
	}

	if got := store.totalReleases(); got != 9 {
		t.Errorf("releases before close: got %d, want 9", got)
	}

	if err := r.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	if store.puts != store.totalReleases() {
		t.Errorf("balance: puts=%d releases=%d", store.puts, store.totalReleases())
	}
	for id, n := range store.releases {
		if n != 1 {
			t.Errorf("ref %s released %d times", id, n)
		}
	}
	if store.Len() != 0 {
		t.Errorf("store len: got %d, want 0", store.Len())
	}
}
