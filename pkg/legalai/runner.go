package legalai

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/best200-lab/juristmindchat/pkg/progress"
)

// Runner consumes one answer stream and drives the progress tracker for the
// turn. All tracker mutation and content accumulation happens on one loop;
// the interval heuristic is a tick on that same loop, not a separate
// execution context, and stops when the stream does.
type Runner struct {
	Tracker    *progress.Tracker // nil for non-legal turns
	Thresholds []int
	Interval   time.Duration

	// OnContent receives the running full content after every fragment,
	// monotonically growing, in arrival order.
	OnContent func(full string)
	// OnSteps receives a step snapshot whenever the panel should repaint.
	OnSteps func(steps []progress.Step)
}

type frameResult struct {
	frame Frame
	err   error
}

// Run reads the stream to completion and returns the accumulated content.
// On a transport error the tracker's running steps are errored and the
// partial content is discarded; the caller substitutes the user-facing
// apology. An empty result with a nil error means the stream produced no
// content and the fallback body parse found none either.
func (r *Runner) Run(ctx context.Context, body io.Reader) (string, error) {
	thresholds := r.Thresholds
	if thresholds == nil {
		thresholds = progress.DefaultThresholds
	}
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultAdvanceInterval
	}

	var raw bytes.Buffer
	dec := NewDecoder(io.TeeReader(body, &raw))

	frames := make(chan frameResult)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			f, err := dec.Next()
			select {
			case frames <- frameResult{f, err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var content strings.Builder
	first := true

loop:
	for {
		select {
		case <-ctx.Done():
			r.fail()
			return "", ctx.Err()
		case <-ticker.C:
			if r.Tracker != nil {
				r.Tracker.AdvanceForLength(content.Len(), thresholds)
				r.publishSteps()
			}
		case fr := <-frames:
			if fr.err == io.EOF {
				break loop
			}
			if fr.err != nil {
				r.fail()
				return "", fr.err
			}
			if fr.frame.Kind != FrameContent {
				continue
			}
			if r.Tracker != nil {
				if first {
					// Retrieval is over once content arrives; jump the
					// panel to composing.
					r.Tracker.FastForward(progress.PhaseWriting)
				}
				for _, phase := range progress.Detect(fr.frame.Content) {
					r.Tracker.Activate(phase)
				}
				r.publishSteps()
			}
			first = false
			content.WriteString(fr.frame.Content)
			if r.OnContent != nil {
				r.OnContent(content.String())
			}
		}
	}

	full := content.String()
	if full == "" {
		// Non-streaming backend deployments return one JSON object.
		if answer, ok := ParseFallbackBody(bytes.TrimSpace(raw.Bytes())); ok {
			full = answer
			if r.OnContent != nil {
				r.OnContent(full)
			}
		}
	}
	if r.Tracker != nil {
		r.Tracker.Finalize()
		r.publishSteps()
	}
	return full, nil
}

func (r *Runner) fail() {
	if r.Tracker != nil {
		r.Tracker.Fail()
		r.publishSteps()
	}
}

func (r *Runner) publishSteps() {
	if r.OnSteps != nil {
		r.OnSteps(r.Tracker.Snapshot())
	}
}
