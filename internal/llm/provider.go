package llm

import (
	"context"
	"fmt"
)

// Provider sends one non-streaming chat request to a completion backend.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// ChatRequest is the provider-neutral request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// Message is a single {role, content} pair sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse carries the text of the first produced choice.
type ChatResponse struct {
	Model   string
	Content string
}

// UpstreamError is returned when the completion endpoint answers with a
// non-success status or a payload that cannot be used.
type UpstreamError struct {
	StatusCode int    // 0 when the status was fine but the body was not.
	Message    string // Upstream-provided message, or a generic status description.
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion API error: %s", e.Message)
	}
	return fmt.Sprintf("completion API error (status %d): %s", e.StatusCode, e.Message)
}
