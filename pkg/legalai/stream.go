package legalai

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const (
	dataMarker   = "data:"
	doneSentinel = "[DONE]"
)

// splitRecords is a bufio.SplitFunc that yields one event record per blank
// line. Split points land on record boundaries only, so partial multi-byte
// sequences inside a record survive chunked reads.
func splitRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Decoder incrementally decodes the backend's event stream into Frames.
type Decoder struct {
	s *bufio.Scanner
}

func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(splitRecords)
	return &Decoder{s: s}
}

// Next returns the next recognized frame. Records without the data marker
// and malformed payloads are skipped. Returns io.EOF when the stream ends,
// including via the done sentinel.
func (d *Decoder) Next() (Frame, error) {
	for d.s.Scan() {
		payload, ok := extractPayload(d.s.Text())
		if !ok {
			continue
		}
		if payload == doneSentinel {
			return Frame{}, io.EOF
		}
		frame, ok := ParseFrame(payload)
		if !ok {
			continue
		}
		if frame.Kind == FrameDone {
			return Frame{}, io.EOF
		}
		return frame, nil
	}
	if err := d.s.Err(); err != nil {
		return Frame{}, err
	}
	return Frame{}, io.EOF
}

// extractPayload strips the data marker from a record and trims the rest.
// Records may carry several lines; only marked lines count.
func extractPayload(record string) (string, bool) {
	for _, line := range strings.Split(record, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, dataMarker) {
			return strings.TrimSpace(strings.TrimPrefix(line, dataMarker)), true
		}
	}
	return "", false
}
