package upload

import (
	"slices"
	"sync"
	"time"
)

// Rendered placeholders.
const (
	LabelRejected         = "Error"
	LabelTransport        = "Server Error"
	ConfidencePlaceholder = "—"
	NoticeInvalidImage    = "Please upload a valid image file."
)

// Pulse is a transient visual effect applied to the pulse container.
type Pulse string

const (
	PulseCompress Pulse = "compress"
	PulseGlow     Pulse = "glow"
)

// ViewState is a copy of the rendered anchors.
type ViewState struct {
	Preview    string  `json:"preview"`
	Label      string  `json:"label"`
	Confidence string  `json:"confidence"`
	Notice     string  `json:"notice,omitempty"`
	Pulses     []Pulse `json:"pulses"`
}

// View owns the anchors the workflow renders into: the preview surface, the
// label and confidence outputs, a user notice, and the pulse container.
type View struct {
	mu         sync.Mutex
	preview    string
	label      string
	confidence string
	notice     string
	pulses     map[Pulse]uint64
	gen        uint64
}

// NewView creates an empty View.
func NewView() *View {
	return &View{pulses: make(map[Pulse]uint64)}
}

// State returns a copy of the rendered anchors.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	pulses := make([]Pulse, 0, len(v.pulses))
	for p := range v.pulses {
		pulses = append(pulses, p)
	}
	slices.Sort(pulses)

	return ViewState{
		Preview:    v.preview,
		Label:      v.label,
		Confidence: v.confidence,
		Notice:     v.notice,
		Pulses:     pulses,
	}
}

// Pulse applies p for d. The pulse clears itself after d regardless of later
// renders; re-applying an active pulse restarts its window.
func (v *View) Pulse(p Pulse, d time.Duration) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.pulses[p] = gen
	v.mu.Unlock()

	time.AfterFunc(d, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.pulses[p] == gen {
			delete(v.pulses, p)
		}
	})
}

func (v *View) setPreview(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = url
	v.notice = ""
}

func (v *View) setOutputs(label, confidence string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.label = label
	v.confidence = confidence
}

func (v *View) setNotice(notice string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notice = notice
}
