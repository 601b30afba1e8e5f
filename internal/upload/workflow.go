package upload

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/internal/selector"
	"github.com/JaimeStill/autolens/pkg/formatting"
)

// Previewer acquires display refs for selected files and releases them.
type Previewer interface {
	Render(ctx context.Context, file *selector.File) (preview.Ref, error)
	Close(ctx context.Context) error
}

// Workflow is the single upload state machine. State is mutated under one
// lock; the classification call is the only work done outside it. A response
// is applied only if its session token is still the active one.
type Workflow struct {
	previews   Previewer
	classifier classifier.Client
	view       *View
	logger     *slog.Logger
	compress   time.Duration
	glow       time.Duration

	mu     sync.Mutex
	state  State
	nextID uint64
	active *Session
	closed bool
}

// New creates a Workflow in the Idle state.
func New(cfg *Config, previews Previewer, client classifier.Client, logger *slog.Logger) *Workflow {
	return &Workflow{
		previews:   previews,
		classifier: client,
		view:       NewView(),
		logger:     logger.With("system", "upload"),
		compress:   cfg.CompressDuration(),
		glow:       cfg.GlowDuration(),
		state:      Idle,
	}
}

// View returns the workflow's view anchors.
func (w *Workflow) View() *View {
	return w.view
}

// Snapshot returns the current state and rendered view.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

// Trigger runs one attempt: open the selector, validate, preview, classify,
// and render. It returns the resulting snapshot together with:
//   - selector.ErrNoSelection when the prompt was canceled;
//   - a classifier.ErrValidation error for a non-image selection;
//   - a classifier.ErrTransport or classifier.ErrRejected error for a failed session;
//   - ErrSuperseded when a newer session started before this one resolved.
//
// A newer Trigger cancels the in-flight classification of an older one.
func (w *Workflow) Trigger(ctx context.Context, sel selector.Selector) (Snapshot, error) {
	if err := w.await(); err != nil {
		return w.Snapshot(), err
	}

	file, err := sel.Select(ctx)
	if err != nil {
		w.settle()
		if errors.Is(err, selector.ErrNoSelection) {
			w.logger.InfoContext(ctx, "selection canceled")
		}
		return w.Snapshot(), err
	}

	if !file.IsImage() || len(file.Data) == 0 {
		w.settle()
		w.view.setNotice(NoticeInvalidImage)
		w.logger.WarnContext(ctx, "rejected non-image selection",
			"filename", file.Name,
			"content_type", file.ContentType,
		)
		return w.Snapshot(), classifier.Validation(NoticeInvalidImage)
	}

	s, sctx, err := w.begin(ctx, file)
	if err != nil {
		return w.Snapshot(), err
	}
	defer s.cancel()

	result, err := w.classifier.Classify(sctx, file)
	return w.resolve(ctx, s, result, err)
}

// Close cancels any in-flight session and releases all preview refs.
// Subsequent triggers return ErrClosed.
func (w *Workflow) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	if w.active != nil {
		w.active.cancel()
	}
	w.mu.Unlock()

	return w.previews.Close(ctx)
}

func (w *Workflow) await() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.active == nil || w.active.State.Terminal() {
		w.state = AwaitingFile
	}
	return nil
}

// settle returns a workflow with no in-flight session to Idle after a
// selection that did not create a session.
func (w *Workflow) settle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == AwaitingFile {
		w.state = Idle
	}
}

// begin creates the new active session, supersedes the prior one, and renders
// the preview. Preview rendering stays under the lock so refs are made
// current in session order. A preview failure ends the session as Failed.
func (w *Workflow) begin(ctx context.Context, file *selector.File) (*Session, context.Context, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrClosed
	}

	sctx, cancel := context.WithCancel(ctx)
	w.nextID++
	s := &Session{
		ID:       w.nextID,
		Filename: file.Name,
		File:     file,
		State:    Previewing,
		cancel:   cancel,
	}

	if prior := w.active; prior != nil && !prior.State.Terminal() {
		prior.supersede()
		w.logger.InfoContext(ctx, "session superseded", "session", prior.ID, "by", s.ID)
	}
	w.active = s
	w.state = Previewing

	ref, err := w.previews.Render(sctx, file)
	if err != nil {
		cancel()
		cerr := classifier.Transport("preview failed", err)
		w.finish(s, nil, cerr)
		return nil, nil, cerr
	}

	s.Preview = ref
	w.view.setPreview(ref.URL)
	w.view.Pulse(PulseCompress, w.compress)

	s.State = Submitting
	w.state = Submitting

	w.logger.InfoContext(ctx, "session submitting",
		"session", s.ID,
		"filename", file.Name,
		"size", formatting.FormatBytes(file.Size, 1),
	)
	return s, sctx, nil
}

func (w *Workflow) resolve(ctx context.Context, s *Session, result *classifier.Classification, err error) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active != s {
		s.supersede()
		w.logger.InfoContext(ctx, "discarded stale response", "session", s.ID)
		return w.snapshot(), ErrSuperseded
	}

	if err != nil {
		var cerr *classifier.Error
		if !errors.As(err, &cerr) {
			cerr = classifier.Transport("classification failed", err)
		}
		w.finish(s, nil, cerr)
		return w.snapshot(), cerr
	}

	w.finish(s, result, nil)
	return w.snapshot(), nil
}

// finish moves s to its terminal state and renders it. Callers hold w.mu and
// have confirmed s is active.
func (w *Workflow) finish(s *Session, result *classifier.Classification, cerr *classifier.Error) {
	if cerr != nil {
		s.fail(cerr)
		w.state = Failed

		label := LabelTransport
		if cerr.Kind == classifier.KindRejected {
			label = LabelRejected
		}
		w.view.setOutputs(label, ConfidencePlaceholder)

		w.logger.Warn("session failed", "session", s.ID, "kind", cerr.Kind, "error", cerr.Message)
		return
	}

	s.succeed(result)
	w.state = Succeeded
	w.view.setOutputs(result.Label, result.Percent())
	w.view.Pulse(PulseGlow, w.glow)

	w.logger.Info("session succeeded", "session", s.ID, "label", result.Label, "confidence", result.Confidence)
}

// snapshot reports the result or error of the active session only while the
// workflow is in the matching terminal state.
func (w *Workflow) snapshot() Snapshot {
	snap := Snapshot{
		State: w.state,
		View:  w.view.State(),
	}
	s := w.active
	if s == nil {
		return snap
	}

	snap.SessionID = s.ID
	snap.Filename = s.Filename
	switch {
	case w.state == Succeeded && s.State == Succeeded:
		snap.Result = s.Result
	case w.state == Failed && s.State == Failed:
		snap.Error = &ErrorInfo{Kind: s.Err.Kind.String(), Message: s.Err.Message}
	}
	return snap
}
