package preview_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/pkg/lifecycle"
	"github.com/JaimeStill/autolens/pkg/storage"
)

type fakeBlobs struct {
	mu    sync.Mutex
	blobs map[string]storage.Blob
	data  map[string][]byte
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{
		blobs: make(map[string]storage.Blob),
		data:  make(map[string][]byte),
	}
}

func (f *fakeBlobs) Start(*lifecycle.Coordinator) error { return nil }

func (f *fakeBlobs) Upload(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
	f.blobs[key] = storage.Blob{ContentType: contentType, ContentLength: int64(len(data))}
	return nil
}

func (f *fakeBlobs) Download(_ context.Context, key string) (*storage.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	b.Body = io.NopCloser(bytes.NewReader(f.data[key]))
	return &b, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.blobs, key)
	delete(f.data, key)
	return nil
}

func (f *fakeBlobs) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok, nil
}

func TestStores(t *testing.T) {
	blobs := newFakeBlobs()

	tests := []struct {
		name  string
		store preview.Store
	}{
		{"memory", preview.NewMemoryStore()},
		{"blob", preview.NewBlobStore(blobs, "previews")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			if err := tt.store.Put(ctx, "id-1", "image/jpeg", []byte("jpeg")); err != nil {
				t.Fatalf("put: %v", err)
			}

			if ok, err := tt.store.Has(ctx, "id-1"); err != nil || !ok {
				t.Fatalf("has: got %v, %v", ok, err)
			}

			item, err := tt.store.Get(ctx, "id-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			body, _ := io.ReadAll(item.Body)
			item.Body.Close()

			if string(body) != "jpeg" || item.ContentType != "image/jpeg" || item.Size != 4 {
				t.Errorf("item: got %q %s %d", body, item.ContentType, item.Size)
			}

			if err := tt.store.Delete(ctx, "id-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := tt.store.Get(ctx, "id-1"); !errors.Is(err, preview.ErrNotFound) {
				t.Errorf("get after delete: got %v, want ErrNotFound", err)
			}
			if ok, _ := tt.store.Has(ctx, "id-1"); ok {
				t.Error("has after delete: got true")
			}
			if err := tt.store.Delete(ctx, "id-1"); !errors.Is(err, preview.ErrNotFound) {
				t.Errorf("second delete: got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestBlobStoreKeyPrefix(t *testing.T) {
	blobs := newFakeBlobs()
	store := preview.NewBlobStore(blobs, "previews")

	if err := store.Put(context.Background(), "abc", "image/png", []byte("png")); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, _ := blobs.Exists(context.Background(), "previews/abc")
	if !ok {
		t.Error("expected blob at previews/abc")
	}
}
