package progress

import (
	"testing"
	"time"
)

func statusOf(t *testing.T, tr *Tracker, phase Phase) Status {
	t.Helper()
	for _, s := range tr.Snapshot() {
		if s.Phase == phase {
			return s.Status
		}
	}
	t.Fatalf("phase %q not found", phase)
	return ""
}

func TestActivateIsIdempotent(t *testing.T) {
	tr := NewTracker(DefaultSteps())
	tr.Activate(PhaseSections)

	var first *time.Time
	for _, s := range tr.Snapshot() {
		if s.Phase == PhaseSections {
			first = s.StartedAt
		}
	}
	if first == nil {
		t.Fatal("expected StartedAt to be set")
	}

	tr.Activate(PhaseSections)
	for _, s := range tr.Snapshot() {
		if s.Phase == PhaseSections {
			if s.Status != StatusRunning {
				t.Errorf("status = %v, want running", s.Status)
			}
			if !s.StartedAt.Equal(*first) {
				t.Error("second Activate reset StartedAt")
			}
		}
	}
}

func TestCompleteWithoutActivate(t *testing.T) {
	tr := NewTracker(DefaultSteps())
	tr.Complete(PhaseAmendments, "42 amendments checked")

	for _, s := range tr.Snapshot() {
		if s.Phase == PhaseAmendments {
			if s.Status != StatusDone {
				t.Errorf("status = %v, want done", s.Status)
			}
			if s.Detail != "42 amendments checked" {
				t.Errorf("detail = %q", s.Detail)
			}
			if s.DurationMs < 0 {
				t.Errorf("duration = %d, want >= 0", s.DurationMs)
			}
		}
	}
}

func TestFailOnlyErrorsRunningSteps(t *testing.T) {
	tr := NewTracker(DefaultSteps())
	tr.Complete(PhaseSections, "")
	tr.Activate(PhaseAmendments)
	tr.Fail()

	if got := statusOf(t, tr, PhaseSections); got != StatusDone {
		t.Errorf("done step became %v after Fail", got)
	}
	if got := statusOf(t, tr, PhaseAmendments); got != StatusError {
		t.Errorf("running step = %v, want error", got)
	}
	// Not-yet-started steps model unknown outcome, not failure.
	if got := statusOf(t, tr, PhaseLandmark); got != StatusPending {
		t.Errorf("pending step = %v, want pending", got)
	}
}

func TestFinalizeLeavesNoStepPending(t *testing.T) {
	tr := NewTracker(DefaultSteps())
	tr.Activate(PhaseSections)
	tr.Finalize()

	if !tr.Terminal() {
		t.Fatal("tracker not terminal after Finalize")
	}
	for _, s := range tr.Snapshot() {
		if s.Status != StatusDone {
			t.Errorf("step %q = %v, want done", s.Phase, s.Status)
		}
	}
}

func TestAdvanceForLengthThresholds(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		wantRunning Phase
		wantDone    []Phase
	}{
		{"zero length activates first step", 0, PhaseSections, nil},
		{"just below threshold", 199, PhaseSections, nil},
		{"crossing 200 advances exactly one step", 200, PhaseAmendments, []Phase{PhaseSections}},
		{"crossing 600", 600, PhaseLandmark, []Phase{PhaseSections, PhaseAmendments}},
		{"crossing 2000 reaches writing", 2500, PhaseWriting, []Phase{PhaseSections, PhaseAmendments, PhaseLandmark, PhaseRecent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(DefaultSteps())
			tr.AdvanceForLength(tt.length, DefaultThresholds)

			if got := statusOf(t, tr, tt.wantRunning); got != StatusRunning {
				t.Errorf("step %q = %v, want running", tt.wantRunning, got)
			}
			for _, p := range tt.wantDone {
				if got := statusOf(t, tr, p); got != StatusDone {
					t.Errorf("step %q = %v, want done", p, got)
				}
			}
		})
	}
}

func TestFastForwardCompletesPriorSteps(t *testing.T) {
	tr := NewTracker(DefaultSteps())
	tr.FastForward(PhaseWriting)

	for _, s := range tr.Snapshot() {
		switch s.Phase {
		case PhaseWriting:
			if s.Status != StatusRunning {
				t.Errorf("writing = %v, want running", s.Status)
			}
		default:
			if s.Status != StatusDone {
				t.Errorf("step %q = %v, want done", s.Phase, s.Status)
			}
		}
	}
}

func TestSignalActivationOutOfOrder(t *testing.T) {
	tr := NewTracker(DefaultSteps())
	// A backend signal can activate a later step before earlier ones ran.
	tr.Activate(PhaseRecent)

	if got := statusOf(t, tr, PhaseRecent); got != StatusRunning {
		t.Errorf("recent = %v, want running", got)
	}
	if got := statusOf(t, tr, PhaseSections); got != StatusPending {
		t.Errorf("sections = %v, want pending", got)
	}

	tr.Finalize()
	if !tr.Terminal() {
		t.Error("not terminal after Finalize")
	}
}
