package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultOpenAIURL is the public OpenAI API base URL.
const DefaultOpenAIURL = "https://api.openai.com/v1"

type openaiProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewOpenAIProvider talks to any OpenAI-compatible /chat/completions endpoint.
// The client has no timeout of its own; callers bound the call with ctx.
func NewOpenAIProvider(baseURL, apiKey string) Provider {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	return &openaiProvider{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *openaiProvider) Name() string { return "openai" }

type openaiChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openaiErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *openaiProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var errResp openaiErrorResponse
		if json.Unmarshal(bodyBytes, &errResp) == nil && errResp.Error != nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	var chatResp openaiChatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, &UpstreamError{Message: "malformed response payload"}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &UpstreamError{Message: "response contained no choices"}
	}

	return &ChatResponse{Model: chatResp.Model, Content: chatResp.Choices[0].Message.Content}, nil
}
