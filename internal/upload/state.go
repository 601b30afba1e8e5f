// Package upload orchestrates the upload-classify-render workflow: one user
// trigger becomes a validated file, a preview, exactly one classification
// request, and a terminal render into the view.
package upload

import "fmt"

// State is a workflow state.
type State int

const (
	Idle State = iota
	AwaitingFile
	Previewing
	Submitting
	Succeeded
	Failed
	// Superseded marks a session replaced before it resolved. The workflow
	// itself never enters it.
	Superseded
)

var stateNames = [...]string{
	Idle:         "idle",
	AwaitingFile: "awaiting_file",
	Previewing:   "previewing",
	Submitting:   "submitting",
	Succeeded:    "succeeded",
	Failed:       "failed",
	Superseded:   "superseded",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether s ends a session.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed || s == Superseded
}
