package api

import (
	"log/slog"

	"pocketchat/internal/model"
	"pocketchat/internal/render"
)

// MessageDTO is a chat message as sent to clients. Assistant replies also
// carry their markdown rendered to HTML.
type MessageDTO struct {
	ID          string `json:"id" example:"5c1d7c1e-0d7e-4f4e-9b8a-3f8e2a9c1b77"`
	Role        string `json:"role" example:"assistant"`
	Content     string `json:"content" example:"**4**"`
	ContentHTML string `json:"content_html,omitempty" example:"<p><strong>4</strong></p>"`
	Timestamp   int64  `json:"timestamp" example:"1700000000000"`
}

// ChatDTO is a full chat with its messages.
type ChatDTO struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	DisplayTitle string       `json:"display_title" example:"2+2?"`
	Model        string       `json:"model" example:"gpt-3.5-turbo"`
	Timestamp    int64        `json:"timestamp"`
	Messages     []MessageDTO `json:"messages"`
}

// ChatSummary is one row of the chat list.
type ChatSummary struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"display_title"`
	Model        string `json:"model"`
	Timestamp    int64  `json:"timestamp"`
	MessageCount int    `json:"message_count"`
	Current      bool   `json:"current"`
}

// SessionResponse describes the current chat and whether a reply is pending.
type SessionResponse struct {
	Chat     *ChatDTO `json:"chat"`
	Awaiting bool     `json:"awaiting"`
}

// SendMessageRequest is the DTO for submitting user input.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=32000" example:"2+2?"`
}

// SetModelRequest selects the model for the current chat.
type SetModelRequest struct {
	Model string `json:"model" validate:"required" example:"gpt-4"`
}

// UpdateTitleRequest is the DTO for the manual chat title update endpoint.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100" example:"My Custom Chat Title"`
}

// SettingsRequest is the DTO for updating settings.
type SettingsRequest struct {
	SystemPrompt string `json:"system_prompt" validate:"required" example:"You are a helpful assistant."`
	DefaultModel string `json:"default_model" validate:"required" example:"gpt-3.5-turbo"`
}

func toMessageDTO(msg model.Message) MessageDTO {
	dto := MessageDTO{ID: msg.ID, Role: msg.Role, Content: msg.Content, Timestamp: msg.Timestamp}
	if msg.Role == model.RoleAssistant {
		html, err := render.HTML(msg.Content)
		if err != nil {
			slog.Warn("Could not render message, sending plain content only", "message_id", msg.ID, "error", err)
		} else {
			dto.ContentHTML = html
		}
	}
	return dto
}

func toChatDTO(chat *model.Chat) *ChatDTO {
	if chat == nil {
		return nil
	}
	messages := make([]MessageDTO, len(chat.Messages))
	for i, msg := range chat.Messages {
		messages[i] = toMessageDTO(msg)
	}
	return &ChatDTO{
		ID:           chat.ID,
		Title:        chat.Title,
		DisplayTitle: chat.DisplayTitle(),
		Model:        chat.Model,
		Timestamp:    chat.Timestamp,
		Messages:     messages,
	}
}

func toChatSummaries(chats []model.Chat, currentID string) []ChatSummary {
	out := make([]ChatSummary, len(chats))
	for i := range chats {
		out[i] = ChatSummary{
			ID:           chats[i].ID,
			DisplayTitle: chats[i].DisplayTitle(),
			Model:        chats[i].Model,
			Timestamp:    chats[i].Timestamp,
			MessageCount: len(chats[i].Messages),
			Current:      chats[i].ID == currentID,
		}
	}
	return out
}
