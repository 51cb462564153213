package legalai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client calls the remote legal-AI ask endpoint. The endpoint answers a
// question as a stream of event records; all retrieval logic lives on the
// remote side.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			// No overall timeout: the answer streams for as long as the
			// backend composes. Cancellation comes from the context.
			Timeout: 0,
		},
	}
}

// AskRequest carries the ask endpoint's multipart form fields.
type AskRequest struct {
	Question string
	ChatID   string
	UserID   string
}

// Ask posts the question and returns the raw response body stream. Callers
// own closing the returned reader.
func (c *Client) Ask(ctx context.Context, req AskRequest) (io.ReadCloser, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("question", req.Question); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if req.ChatID != "" {
		if err := form.WriteField("chat_id", req.ChatID); err != nil {
			return nil, fmt.Errorf("write form field: %w", err)
		}
	}
	if req.UserID != "" {
		if err := form.WriteField("user_id", req.UserID); err != nil {
			return nil, fmt.Errorf("write form field: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ask request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("ask error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return resp.Body, nil
}

// DefaultAdvanceInterval is how often the runner applies the length
// threshold heuristic while the stream is open.
const DefaultAdvanceInterval = 700 * time.Millisecond
