package upload

import (
	"context"

	"github.com/JaimeStill/autolens/internal/classifier"
	"github.com/JaimeStill/autolens/internal/preview"
	"github.com/JaimeStill/autolens/internal/selector"
)

// Session is one user-initiated attempt from file selection through terminal
// render. Only the Workflow mutates a Session.
type Session struct {
	ID       uint64
	Filename string
	File     *selector.File
	Preview  preview.Ref
	State    State
	Result   *classifier.Classification
	Err      *classifier.Error

	cancel context.CancelFunc
}

func (s *Session) succeed(result *classifier.Classification) {
	s.State = Succeeded
	s.Result = result
	s.Err = nil
	s.File = nil
}

// supersede ends a session replaced by a newer one. Its result, if any
// arrives, is never applied.
func (s *Session) supersede() {
	if s.State.Terminal() {
		return
	}
	s.cancel()
	s.State = Superseded
	s.File = nil
}

func (s *Session) fail(err *classifier.Error) {
	s.State = Failed
	s.Err = err
	s.Result = nil
	s.File = nil
}

// ErrorInfo is the serialized form of a session failure.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Snapshot reports the workflow's current state and rendered view.
type Snapshot struct {
	SessionID uint64                     `json:"session_id"`
	State     State                      `json:"state"`
	Filename  string                     `json:"filename,omitempty"`
	Result    *classifier.Classification `json:"result,omitempty"`
	Error     *ErrorInfo                 `json:"error,omitempty"`
	View      ViewState                  `json:"view"`
}
