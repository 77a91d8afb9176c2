package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "pocketchat/internal/errors"
	"pocketchat/internal/llm"
	"pocketchat/internal/metrics"
	"pocketchat/internal/model"
	"pocketchat/internal/repository"
)

// errorReplyFormat is the assistant message recorded when a completion fails.
const errorReplyFormat = "Sorry, an error occurred: %s. Make sure the completion API key is configured correctly."

// ErrReplyPending is returned by SendMessage while an earlier message is still waiting for its reply.
var ErrReplyPending = fmt.Errorf("%w: a reply is still pending", app_errors.ErrConflict)

// View is notified after the session changes. Calls happen while the session
// lock is held, so implementations must not call back into the session.
type View interface {
	ChatListChanged(chats []model.Chat, currentID string)
	MessagesChanged(chat *model.Chat)
}

// NopView ignores all notifications.
type NopView struct{}

func (NopView) ChatListChanged([]model.Chat, string) {}
func (NopView) MessagesChanged(*model.Chat)          {}

// Option configures a SessionService.
type Option func(*SessionService)

// WithView sets the observer notified after each change.
func WithView(v View) Option {
	return func(s *SessionService) { s.view = v }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *SessionService) { s.newID = newID }
}

// SessionService owns the current chat and the in-flight reply guard, and
// performs every mutation of the chat history.
type SessionService struct {
	repo      repository.Repository
	completer llm.Completer
	settings  *SettingsService
	models    *ModelService
	view      View
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	current  *model.Chat
	awaiting bool
}

func NewSessionService(repo repository.Repository, completer llm.Completer, settings *SettingsService, models *ModelService, opts ...Option) *SessionService {
	s := &SessionService{
		repo:      repo,
		completer: completer,
		settings:  settings,
		models:    models,
		view:      NopView{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the most recently touched chat, or creates one when the history is empty.
func (s *SessionService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("could not load chats: %w", err)
	}
	if len(chats) == 0 {
		_, err := s.createLocked(ctx)
		return err
	}

	latest := model.SortByTimestamp(chats)[0]
	s.current = &latest
	s.view.MessagesChanged(s.current.Clone())
	s.notifyListLocked(ctx)
	slog.Info("Resumed chat session", "chat_id", latest.ID, "chats", len(chats))
	return nil
}

// Current returns a copy of the current chat, or nil.
func (s *SessionService) Current() *model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Awaiting reports whether a reply is in flight.
func (s *SessionService) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// ListChats returns the history most recent first.
func (s *SessionService) ListChats(ctx context.Context) ([]model.Chat, error) {
	chats, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list chats: %w", err)
	}
	return model.SortByTimestamp(chats), nil
}

// GetChat returns a stored chat by id.
func (s *SessionService) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	chat, err := s.repo.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("chat %s: %w", chatID, app_errors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get chat: %w", err)
	}
	return chat, nil
}

// CreateNewChat starts an empty chat and makes it current.
func (s *SessionService) CreateNewChat(ctx context.Context) (*model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(ctx)
}

// OpenChat makes the chat with chatID current. An unknown id changes nothing
// and is reported through found, not as an error.
func (s *SessionService) OpenChat(ctx context.Context, chatID string) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, err := s.repo.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("could not open chat: %w", err)
	}

	s.current = chat
	s.view.MessagesChanged(chat.Clone())
	s.notifyListLocked(ctx)
	return true, nil
}

// SendMessage appends text as a user message to the current chat and waits for
// the assistant reply. It does nothing when text is blank or there is no
// current chat, and returns ErrReplyPending without touching the chat while a
// reply is pending. A failed completion is recorded as an assistant message
// instead of being returned.
func (s *SessionService) SendMessage(ctx context.Context, text string) error {
	content := strings.TrimSpace(text)

	s.mu.Lock()
	if content == "" || s.current == nil {
		s.mu.Unlock()
		return nil
	}
	if s.awaiting {
		s.mu.Unlock()
		return ErrReplyPending
	}

	now := s.now()
	updated := s.current.Clone()
	updated.Append(model.NewMessage(s.newID(), model.RoleUser, content, now), now)
	if err := s.repo.Save(ctx, updated); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not save user message: %w", err)
	}
	metrics.MessagesAppended.WithLabelValues(model.RoleUser).Inc()

	s.current = updated
	s.awaiting = true
	chatID, modelName, history := updated.ID, updated.Model, updated.Clone().Messages
	s.view.MessagesChanged(updated.Clone())
	s.notifyListLocked(ctx)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.awaiting = false
		s.mu.Unlock()
	}()

	reply, err := s.completer.Complete(ctx, history, modelName)
	if err != nil {
		slog.Warn("Could not get a reply, recording the error in the chat", "chat_id", chatID, "error", err)
		reply = fmt.Sprintf(errorReplyFormat, err.Error())
	}

	// The reply belongs to the chat that asked for it, even if the request was cancelled meanwhile.
	return s.appendReply(context.WithoutCancel(ctx), chatID, reply)
}

// appendReply re-reads the chat so renames made while waiting are kept.
func (s *SessionService) appendReply(ctx context.Context, chatID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, err := s.repo.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Chat was deleted before its reply arrived, dropping the reply", "chat_id", chatID)
			return nil
		}
		return fmt.Errorf("could not reload chat for reply: %w", err)
	}

	now := s.now()
	chat.Append(model.NewMessage(s.newID(), model.RoleAssistant, content, now), now)
	if err := s.repo.Save(ctx, chat); err != nil {
		return fmt.Errorf("could not save assistant message: %w", err)
	}
	metrics.MessagesAppended.WithLabelValues(model.RoleAssistant).Inc()

	if s.current != nil && s.current.ID == chatID {
		s.current = chat
		s.view.MessagesChanged(chat.Clone())
	}
	s.notifyListLocked(ctx)
	return nil
}

// DeleteChat removes a chat. Deleting the current chat moves the session to
// the most recently touched remaining chat, or to a new empty one.
func (s *SessionService) DeleteChat(ctx context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("Deleting chat", "chat_id", chatID)
	if err := s.repo.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("could not delete chat: %w", err)
	}

	if s.current == nil || s.current.ID != chatID {
		s.notifyListLocked(ctx)
		return nil
	}

	remaining, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("could not load remaining chats: %w", err)
	}
	if len(remaining) == 0 {
		_, err := s.createLocked(ctx)
		return err
	}

	latest := model.SortByTimestamp(remaining)[0]
	s.current = &latest
	s.view.MessagesChanged(s.current.Clone())
	s.notifyListLocked(ctx)
	return nil
}

// RenameChat sets an explicit title. Blank or unchanged titles and unknown ids are ignored.
func (s *SessionService) RenameChat(ctx context.Context, chatID, newTitle string) error {
	title := strings.TrimSpace(newTitle)

	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		return nil
	}

	chat, err := s.repo.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("could not load chat for rename: %w", err)
	}
	if chat.Title == title {
		return nil
	}

	chat.Title = title
	chat.Touch(s.now())
	if err := s.repo.Save(ctx, chat); err != nil {
		return fmt.Errorf("could not rename chat: %w", err)
	}

	if s.current != nil && s.current.ID == chatID {
		updated := s.current.Clone()
		updated.Title = chat.Title
		updated.Timestamp = chat.Timestamp
		s.current = updated
	}
	s.notifyListLocked(ctx)
	return nil
}

// SetModel attaches modelName to the current chat.
func (s *SessionService) SetModel(ctx context.Context, modelName string) error {
	if !s.models.IsKnown(modelName) {
		return fmt.Errorf("%w: model '%s' is not available", app_errors.ErrValidation, modelName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Model == modelName {
		return nil
	}

	updated := s.current.Clone()
	updated.Model = modelName
	updated.Touch(s.now())
	if err := s.repo.Save(ctx, updated); err != nil {
		return fmt.Errorf("could not save model selection: %w", err)
	}
	s.current = updated
	s.notifyListLocked(ctx)
	return nil
}

// ClearAll destroys the whole history and starts over with one empty chat.
func (s *SessionService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("Clearing all chats")
	if err := s.repo.ClearAll(ctx); err != nil {
		return fmt.Errorf("could not clear chats: %w", err)
	}
	s.current = nil
	_, err := s.createLocked(ctx)
	return err
}

func (s *SessionService) createLocked(ctx context.Context) (*model.Chat, error) {
	chat := model.NewChat(s.newID(), s.settings.DefaultModel(ctx), s.now())
	if err := s.repo.Save(ctx, chat); err != nil {
		return nil, fmt.Errorf("could not create chat: %w", err)
	}

	s.current = chat
	s.view.MessagesChanged(chat.Clone())
	s.notifyListLocked(ctx)
	return chat.Clone(), nil
}

func (s *SessionService) notifyListLocked(ctx context.Context) {
	chats, err := s.repo.LoadAll(ctx)
	if err != nil {
		slog.Warn("Could not refresh chat list", "error", err)
		return
	}
	currentID := ""
	if s.current != nil {
		currentID = s.current.ID
	}
	s.view.ChatListChanged(model.SortByTimestamp(chats), currentID)
}
