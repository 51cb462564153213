package progress

import (
	"sync"
	"time"
)

// Status is the lifecycle state of a single step.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Step is one phase of backend work as shown in the progress panel.
type Step struct {
	Phase      Phase      `json:"id"`
	Label      string     `json:"label"`
	Status     Status     `json:"status"`
	Detail     string     `json:"detail,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`
}

// DefaultSteps returns the step list created for a legal query. Non-legal
// turns get no steps and the progress panel does not render.
func DefaultSteps() []Step {
	return []Step{
		{Phase: PhaseSections, Label: "Searching statutory sections", Status: StatusPending},
		{Phase: PhaseAmendments, Label: "Checking amendments", Status: StatusPending},
		{Phase: PhaseLandmark, Label: "Reviewing landmark judgments", Status: StatusPending},
		{Phase: PhaseRecent, Label: "Scanning recent rulings", Status: StatusPending},
		{Phase: PhaseWriting, Label: "Writing the answer", Status: StatusPending},
	}
}

// DefaultThresholds are the accumulated-content lengths (in characters) at
// which the advancer moves to the next step. Tuning constants, not semantic
// boundaries.
var DefaultThresholds = []int{0, 200, 600, 1200, 2000}

// Tracker is the ordered state machine over a turn's steps. All mutation for
// one turn happens on the stream runner's loop; the mutex only guards
// snapshot reads from other goroutines (the realtime publisher).
type Tracker struct {
	mu    sync.Mutex
	steps []Step
	seen  map[Phase]bool
	pos   int // index of the next step the advancer would activate
}

func NewTracker(steps []Step) *Tracker {
	t := &Tracker{
		steps: make([]Step, len(steps)),
		seen:  make(map[Phase]bool, len(steps)),
	}
	copy(t.steps, steps)
	return t
}

func (t *Tracker) find(phase Phase) int {
	for i := range t.steps {
		if t.steps[i].Phase == phase {
			return i
		}
	}
	return -1
}

// Activate marks a step running. Idempotent within a turn: a phase already
// activated keeps its original start time.
func (t *Tracker) Activate(phase Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activate(phase)
}

func (t *Tracker) activate(phase Phase) {
	if t.seen[phase] {
		return
	}
	i := t.find(phase)
	if i < 0 {
		return
	}
	t.seen[phase] = true
	now := time.Now()
	t.steps[i].Status = StatusRunning
	t.steps[i].StartedAt = &now
	if i >= t.pos {
		t.pos = i
	}
}

// Complete marks a step done and records its elapsed duration. A step that
// was never activated completes with zero duration, tolerating out-of-order
// completion.
func (t *Tracker) Complete(phase Phase, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.complete(phase, detail)
}

func (t *Tracker) complete(phase Phase, detail string) {
	i := t.find(phase)
	if i < 0 {
		return
	}
	now := time.Now()
	started := now
	if t.steps[i].StartedAt != nil {
		started = *t.steps[i].StartedAt
	} else {
		t.steps[i].StartedAt = &started
	}
	t.seen[phase] = true
	t.steps[i].Status = StatusDone
	t.steps[i].DurationMs = now.Sub(started).Milliseconds()
	if detail != "" {
		t.steps[i].Detail = detail
	}
	if i >= t.pos {
		t.pos = i + 1
	}
}

// AdvanceForLength applies the threshold heuristic: with accumulated content
// of n characters, every step whose threshold index has been crossed is
// completed and the next one activated. Superseded by FastForward and by
// explicit signals; calling it after either is a no-op for passed steps.
func (t *Tracker) AdvanceForLength(n int, thresholds []int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.steps) == 0 {
		return
	}
	target := 0
	for i, th := range thresholds {
		if n >= th && i < len(t.steps) {
			target = i
		}
	}
	for i := 0; i < target; i++ {
		if t.steps[i].Status == StatusRunning || t.steps[i].Status == StatusPending {
			t.complete(t.steps[i].Phase, "")
		}
	}
	if t.steps[target].Status == StatusPending {
		t.activate(t.steps[target].Phase)
	}
}

// FastForward completes every step before the given phase and activates it.
// Used when the first content fragment arrives: retrieval is over, the
// backend is composing.
func (t *Tracker) FastForward(phase Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.find(phase)
	if i < 0 {
		return
	}
	for j := 0; j < i; j++ {
		if t.steps[j].Status != StatusDone && t.steps[j].Status != StatusError {
			t.complete(t.steps[j].Phase, "")
		}
	}
	if t.steps[i].Status == StatusPending {
		t.activate(phase)
	}
}

// Fail marks every running step as errored. Steps not yet started stay
// pending: their outcome is unknown, not failed.
func (t *Tracker) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.steps {
		if t.steps[i].Status == StatusRunning {
			t.steps[i].Status = StatusError
		}
	}
}

// Finalize forces every non-terminal step through activate+complete so no
// step is left pending once the turn stops streaming.
func (t *Tracker) Finalize() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.steps {
		switch t.steps[i].Status {
		case StatusDone, StatusError:
			continue
		case StatusPending:
			t.activate(t.steps[i].Phase)
			t.complete(t.steps[i].Phase, "")
		case StatusRunning:
			t.complete(t.steps[i].Phase, "")
		}
	}
}

// Terminal reports whether every step reached done or error.
func (t *Tracker) Terminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.steps {
		if t.steps[i].Status != StatusDone && t.steps[i].Status != StatusError {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of the current step list.
func (t *Tracker) Snapshot() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}
