package interfaces

import (
	"context"

	"pocketchat/internal/model"
	"pocketchat/internal/service"
)

// SessionService defines the contract the surfaces use to drive the chat session.
type SessionService interface {
	Current() *model.Chat
	Awaiting() bool
	ListChats(ctx context.Context) ([]model.Chat, error)
	GetChat(ctx context.Context, chatID string) (*model.Chat, error)
	CreateNewChat(ctx context.Context) (*model.Chat, error)
	OpenChat(ctx context.Context, chatID string) (bool, error)
	SendMessage(ctx context.Context, text string) error
	DeleteChat(ctx context.Context, chatID string) error
	RenameChat(ctx context.Context, chatID, newTitle string) error
	SetModel(ctx context.Context, modelName string) error
	ClearAll(ctx context.Context) error
}

// ModelService defines the contract for the model catalogue.
type ModelService interface {
	List(ctx context.Context) ([]service.ModelInfo, error)
}

// SettingsService defines the contract for managing user settings.
type SettingsService interface {
	Get(ctx context.Context) (*service.Settings, error)
	Save(ctx context.Context, settings *service.Settings) error
}

var (
	_ SessionService  = (*service.SessionService)(nil)
	_ ModelService    = (*service.ModelService)(nil)
	_ SettingsService = (*service.SettingsService)(nil)
)
