package progress

import "regexp"

// Phase identifies one stage of backend analysis work.
type Phase string

const (
	PhaseSections   Phase = "sections"
	PhaseAmendments Phase = "amendments"
	PhaseLandmark   Phase = "landmark"
	PhaseRecent     Phase = "recent"
	PhasePrinciples Phase = "principles"
	PhaseWriting    Phase = "writing"
)

type signalPattern struct {
	phase   Phase
	pattern *regexp.Regexp
}

// The backend does not emit structured phase events; it leaks its state
// through wording. These patterns couple us to that wording, so they stay
// behind Detect and nothing else in the codebase matches raw text.
var signalPatterns = []signalPattern{
	{PhaseSections, regexp.MustCompile(`(?i)(statutory section|relevant section|section \d+|provision|statute)`)},
	{PhaseAmendments, regexp.MustCompile(`(?i)(amendment|amended by|amending act)`)},
	{PhaseLandmark, regexp.MustCompile(`(?i)(landmark (judgment|judgement|case|ruling)|leading case)`)},
	{PhaseRecent, regexp.MustCompile(`(?i)(recent (judgment|judgement|case|ruling)|latest ruling)`)},
	{PhasePrinciples, regexp.MustCompile(`(?i)(legal principle|settled principle|doctrine of)`)},
	{PhaseWriting, regexp.MustCompile(`(?i)(drafting|composing|writing (the )?(answer|response|opinion))`)},
}

// Detect returns the set of phases whose pattern matches anywhere in the
// chunk. Matching is independent per pattern; the result is in declaration
// order but callers must treat it as a set. No match means an empty result.
func Detect(chunk string) []Phase {
	var phases []Phase
	for _, sp := range signalPatterns {
		if sp.pattern.MatchString(chunk) {
			phases = append(phases, sp.phase)
		}
	}
	return phases
}
