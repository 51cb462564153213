package legalai

import (
	"io"
	"strings"
	"testing"
)

func collectFrames(t *testing.T, input string) []Frame {
	t.Helper()
	dec := NewDecoder(strings.NewReader(input))
	var frames []Frame
	for {
		f, err := dec.Next()
		if err == io.EOF {
			return frames
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		frames = append(frames, f)
	}
}

func TestDecoderContentFrames(t *testing.T) {
	input := "data: {\"content\":\"Hello\"}\n\ndata: {\"content\":\" world\"}\n\ndata: [DONE]\n\n"
	frames := collectFrames(t, input)

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Content != "Hello" || frames[1].Content != " world" {
		t.Errorf("contents = %q, %q", frames[0].Content, frames[1].Content)
	}
}

func TestDecoderSkipsMalformedFrames(t *testing.T) {
	input := "data: {\"content\":\"a\"}\n\ndata: {not json}\n\ndata: {\"content\":\"b\"}\n\n"
	frames := collectFrames(t, input)

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2 (malformed skipped)", len(frames))
	}
	if frames[0].Content+frames[1].Content != "ab" {
		t.Errorf("contents = %q + %q, want ab", frames[0].Content, frames[1].Content)
	}
}

func TestDecoderIgnoresUnmarkedRecords(t *testing.T) {
	input := ": comment\n\nevent: other\n\ndata: {\"content\":\"x\"}\n\n"
	frames := collectFrames(t, input)

	if len(frames) != 1 || frames[0].Content != "x" {
		t.Fatalf("frames = %+v, want single content x", frames)
	}
}

func TestDecoderHeartbeatAndDone(t *testing.T) {
	input := "data: {\"type\":\"heartbeat\"}\n\ndata: {\"content\":\"hi\"}\n\ndata: {\"type\":\"done\"}\n\ndata: {\"content\":\"never\"}\n\n"
	dec := NewDecoder(strings.NewReader(input))

	f, err := dec.Next()
	if err != nil || f.Kind != FrameHeartbeat {
		t.Fatalf("first frame = %+v, %v; want heartbeat", f, err)
	}
	f, err = dec.Next()
	if err != nil || f.Kind != FrameContent || f.Content != "hi" {
		t.Fatalf("second frame = %+v, %v; want content hi", f, err)
	}
	if _, err = dec.Next(); err != io.EOF {
		t.Fatalf("done record should end the stream, got %v", err)
	}
}

func TestParseFrameShapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind FrameKind
		wantOK   bool
	}{
		{"heartbeat", `{"type":"heartbeat"}`, FrameHeartbeat, true},
		{"done", `{"type":"done"}`, FrameDone, true},
		{"content", `{"content":"text"}`, FrameContent, true},
		{"empty content still content", `{"content":""}`, FrameContent, true},
		{"unknown shape", `{"other":1}`, 0, false},
		{"not json", `{broken`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ParseFrame(tt.payload)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && f.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", f.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseFallbackBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"answer field", `{"answer":"the answer"}`, "the answer", true},
		{"content field", `{"content":"the content"}`, "the content", true},
		{"answer preferred", `{"answer":"a","content":"c"}`, "a", true},
		{"neither", `{"status":"ok"}`, "", false},
		{"invalid", `not json at all`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFallbackBody([]byte(tt.body))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseFallbackBody = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
