package llm

import (
	"context"
	"log/slog"
	"time"

	"pocketchat/internal/metrics"
	"pocketchat/internal/model"
)

// DefaultTemperature is sent when no temperature is configured.
const DefaultTemperature = 0.7

// Completer turns a chat history into the next assistant reply.
type Completer interface {
	Complete(ctx context.Context, history []model.Message, modelName string) (string, error)
}

// PromptSource supplies the system instruction prepended to every request.
type PromptSource interface {
	SystemPrompt(ctx context.Context) string
}

// StaticPrompt is a PromptSource that always returns the same instruction.
type StaticPrompt string

func (p StaticPrompt) SystemPrompt(context.Context) string { return string(p) }

// CompletionClient is the stateless bridge between a chat history and a Provider.
// It makes exactly one provider call per Complete: no retries, no streaming.
type CompletionClient struct {
	provider    Provider
	prompt      PromptSource
	temperature float64
}

func NewCompletionClient(provider Provider, prompt PromptSource, temperature float64) *CompletionClient {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &CompletionClient{provider: provider, prompt: prompt, temperature: temperature}
}

// Complete prepends the system instruction, forwards the history unchanged
// and returns the first choice's text.
func (c *CompletionClient) Complete(ctx context.Context, history []model.Message, modelName string) (string, error) {
	req := &ChatRequest{
		Model:       modelName,
		Messages:    BuildMessages(c.prompt.SystemPrompt(ctx), history),
		Temperature: c.temperature,
	}

	start := time.Now()
	resp, err := c.provider.Chat(ctx, req)
	metrics.CompletionDuration.WithLabelValues(c.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues(c.provider.Name(), "error").Inc()
		slog.Error("Completion request failed", "provider", c.provider.Name(), "model", modelName, "error", err)
		return "", err
	}

	metrics.CompletionsTotal.WithLabelValues(c.provider.Name(), "success").Inc()
	slog.Debug("Completion received", "provider", c.provider.Name(), "model", modelName, "chars", len(resp.Content))
	return resp.Content, nil
}

// BuildMessages maps history to upstream messages behind a system instruction.
func BuildMessages(systemPrompt string, history []model.Message) []Message {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, Message{Role: msg.Role, Content: msg.Content})
	}
	return messages
}
