// Package preview turns a selected file into a locally displayable reference
// and owns that reference's lifetime. Every acquired reference is released
// exactly once: when a newer reference replaces it, when it is revoked
// explicitly, or when the renderer closes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/autolens/internal/selector"
)

// Ref is an opaque display handle for a not-yet-uploaded file.
type Ref struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// IsZero reports whether r is the empty reference.
func (r Ref) IsZero() bool {
	return r.ID == ""
}

// Renderer acquires and releases preview references.
type Renderer struct {
	store   Store
	baseURL string
	logger  *slog.Logger

	mu      sync.Mutex
	current Ref
	live    map[string]struct{}
}

// NewRenderer creates a Renderer whose refs resolve under baseURL
// (for example "/api/previews").
func NewRenderer(store Store, baseURL string, logger *slog.Logger) *Renderer {
	return &Renderer{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With("system", "preview"),
		live:    make(map[string]struct{}),
	}
}

// Render acquires a new ref for file and makes it current. The previously
// current ref, if still live, is released immediately after.
func (r *Renderer) Render(ctx context.Context, file *selector.File) (Ref, error) {
	if len(file.Data) == 0 {
		return Ref{}, ErrEmpty
	}

	id := uuid.NewString()
	if err := r.store.Put(ctx, id, file.ContentType, file.Data); err != nil {
		return Ref{}, fmt.Errorf("render preview: %w", err)
	}

	ref := Ref{ID: id, URL: r.baseURL + "/" + id}

	r.mu.Lock()
	prev := r.current
	r.current = ref
	r.live[id] = struct{}{}
	r.mu.Unlock()

	if !prev.IsZero() {
		if err := r.Revoke(ctx, prev); err != nil && !errors.Is(err, ErrRevoked) {
			r.logger.WarnContext(ctx, "release superseded preview failed", "id", prev.ID, "error", err)
		}
	}

	return ref, nil
}

// Revoke releases ref. A ref that was already released returns ErrRevoked
// without touching the store.
func (r *Renderer) Revoke(ctx context.Context, ref Ref) error {
	r.mu.Lock()
	if _, ok := r.live[ref.ID]; !ok {
		r.mu.Unlock()
		return ErrRevoked
	}
	delete(r.live, ref.ID)
	if r.current.ID == ref.ID {
		r.current = Ref{}
	}
	r.mu.Unlock()

	if err := r.store.Delete(ctx, ref.ID); err != nil {
		return fmt.Errorf("revoke preview %s: %w", ref.ID, err)
	}
	return nil
}

// Open returns the payload behind a live ref id.
func (r *Renderer) Open(ctx context.Context, id string) (*Item, error) {
	if !r.Live(id) {
		return nil, ErrNotFound
	}
	return r.store.Get(ctx, id)
}

// Stat confirms a live ref id is still backed by its store.
func (r *Renderer) Stat(ctx context.Context, id string) error {
	if !r.Live(id) {
		return ErrNotFound
	}
	ok, err := r.store.Has(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Live reports whether id names an unreleased ref.
func (r *Renderer) Live(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[id]
	return ok
}

// Close releases every outstanding ref concurrently.
func (r *Renderer) Close(ctx context.Context) error {
	r.mu.Lock()
	refs := make([]Ref, 0, len(r.live))
	for id := range r.live {
		refs = append(refs, Ref{ID: id})
	}
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, ref := range refs {
		g.Go(func() error {
			err := r.Revoke(gctx, ref)
			if errors.Is(err, ErrRevoked) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
