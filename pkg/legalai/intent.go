package legalai

import (
	"regexp"
	"strings"
)

// Greetings and small talk get a direct reply with no research pipeline, so
// no progress panel is shown for them.
var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good (morning|afternoon|evening)|thanks|thank you|bye|goodbye)[\s!.,?]*$`)

var legalKeywords = []string{
	"law", "legal", "statute", "section", "act", "regulation", "court",
	"judge", "judgment", "case", "contract", "liability", "sue", "lawsuit",
	"rights", "penalty", "fine", "divorce", "custody", "property", "tenant",
	"landlord", "employment", "dismissal", "compensation", "tax", "will",
	"inheritance", "criminal", "bail", "appeal", "clause", "agreement",
}

// IsLegalQuery reports whether a question should go through the research
// pipeline with progress steps. Short greetings are never legal; anything
// carrying a legal keyword or long enough to be a real question is.
func IsLegalQuery(question string) bool {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return false
	}
	if greetingPattern.MatchString(trimmed) {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range legalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	// A sentence of real length is treated as a substantive question even
	// without an obvious keyword.
	return len(strings.Fields(trimmed)) >= 4
}
