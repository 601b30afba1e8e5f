package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/JaimeStill/autolens/pkg/storage"
)

// Item is an opened preview payload. The caller must close Body.
type Item struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store holds preview payloads between acquisition and release.
type Store interface {
	Put(ctx context.Context, id, contentType string, data []byte) error
	Get(ctx context.Context, id string) (*Item, error)
	Has(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	contentType string
	data        []byte
}

// MemoryStore keeps preview payloads in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Put(_ context.Context, id, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{contentType: contentType, data: data}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Item{
		Body:        io.NopCloser(bytes.NewReader(e.data)),
		ContentType: e.contentType,
		Size:        int64(len(e.data)),
	}, nil
}

func (m *MemoryStore) Has(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[id]
	return ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// Len reports the number of held payloads.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// BlobStore keeps preview payloads in blob storage under a key prefix.
type BlobStore struct {
	blobs  storage.System
	prefix string
}

// NewBlobStore creates a BlobStore writing keys as prefix/id.
func NewBlobStore(blobs storage.System, prefix string) *BlobStore {
	return &BlobStore{blobs: blobs, prefix: prefix}
}

func (b *BlobStore) key(id string) string {
	if b.prefix == "" {
		return id
	}
	return b.prefix + "/" + id
}

func (b *BlobStore) Put(ctx context.Context, id, contentType string, data []byte) error {
	if err := b.blobs.Upload(ctx, b.key(id), bytes.NewReader(data), contentType); err != nil {
		return fmt.Errorf("store preview: %w", err)
	}
	return nil
}

func (b *BlobStore) Get(ctx context.Context, id string) (*Item, error) {
	blob, err := b.blobs.Download(ctx, b.key(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open preview: %w", err)
	}
	return &Item{
		Body:        blob.Body,
		ContentType: blob.ContentType,
		Size:        blob.ContentLength,
	}, nil
}

func (b *BlobStore) Has(ctx context.Context, id string) (bool, error) {
	ok, err := b.blobs.Exists(ctx, b.key(id))
	if err != nil {
		return false, fmt.Errorf("check preview: %w", err)
	}
	return ok, nil
}

func (b *BlobStore) Delete(ctx context.Context, id string) error {
	if err := b.blobs.Delete(ctx, b.key(id)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}
