package legalai

import "encoding/json"

// FrameKind is the closed set of record kinds the backend emits. Raw payload
// shapes are distinguished only by which fields are present, so they are
// decoded once at this boundary into a tagged variant.
type FrameKind int

const (
	FrameHeartbeat FrameKind = iota
	FrameDone
	FrameContent
)

// Frame is one decoded stream record.
type Frame struct {
	Kind    FrameKind
	Content string
}

type rawFrame struct {
	Type    string  `json:"type"`
	Content *string `json:"content"`
}

// ParseFrame decodes one record payload. The second return is false for
// malformed or unrecognized payloads, which the stream skips: a single bad
// frame must not abort an otherwise-successful answer.
func ParseFrame(payload string) (Frame, bool) {
	var raw rawFrame
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Frame{}, false
	}
	switch {
	case raw.Type == "heartbeat":
		return Frame{Kind: FrameHeartbeat}, true
	case raw.Type == "done":
		return Frame{Kind: FrameDone}, true
	case raw.Content != nil:
		return Frame{Kind: FrameContent, Content: *raw.Content}, true
	}
	return Frame{}, false
}

// fallbackBody is the non-streaming response shape some backend deployments
// return: a single JSON object with the whole answer.
type fallbackBody struct {
	Answer  string `json:"answer"`
	Content string `json:"content"`
}

// ParseFallbackBody attempts to read an entire response body as one
// structured record and extract the answer.
func ParseFallbackBody(body []byte) (string, bool) {
	var fb fallbackBody
	if err := json.Unmarshal(body, &fb); err != nil {
		return "", false
	}
	if fb.Answer != "" {
		return fb.Answer, true
	}
	if fb.Content != "" {
		return fb.Content, true
	}
	return "", false
}
