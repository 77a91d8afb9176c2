package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"pocketchat/internal/kvstore"
	"pocketchat/internal/model"
)

// DefaultKey is the storage slot holding the chat collection.
const DefaultKey = "ai-assistant-chats"

// Repository persists the whole chat collection under a single key.
// Every write replaces the full collection.
type Repository interface {
	LoadAll(ctx context.Context) ([]model.Chat, error)
	Save(ctx context.Context, chat *model.Chat) error
	Delete(ctx context.Context, chatID string) error
	Get(ctx context.Context, chatID string) (*model.Chat, error)
	ClearAll(ctx context.Context) error
}

type chatRepository struct {
	// mu serializes read-modify-write cycles within this process.
	// Other processes sharing the slot are last-write-wins.
	mu    sync.Mutex
	store kvstore.Store
	key   string
}

func NewChatRepository(store kvstore.Store, key string) Repository {
	if key == "" {
		key = DefaultKey
	}
	return &chatRepository{store: store, key: key}
}

func (r *chatRepository) LoadAll(ctx context.Context) ([]model.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *chatRepository) Save(ctx context.Context, chat *model.Chat) error {
	if chat == nil || chat.ID == "" {
		return fmt.Errorf("repository: cannot save chat without id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	chats, err := r.load(ctx)
	if err != nil {
		return err
	}

	stored := *chat.Clone()
	replaced := false
	for i := range chats {
		if chats[i].ID == chat.ID {
			chats[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		chats = append(chats, stored)
	}

	return r.persist(ctx, chats)
}

func (r *chatRepository) Delete(ctx context.Context, chatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := chats[:0]
	for _, c := range chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(chats) {
		return nil
	}
	return r.persist(ctx, kept)
}

func (r *chatRepository) Get(ctx context.Context, chatID string) (*model.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID == chatID {
			return &chats[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *chatRepository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("could not clear chats: %w", err)
	}
	return nil
}

// load reads and decodes the collection. A payload that does not parse is
// logged and treated as an empty history.
func (r *chatRepository) load(ctx context.Context) ([]model.Chat, error) {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("could not read chats: %w", err)
	}
	if !found || len(raw) == 0 {
		return []model.Chat{}, nil
	}

	chats, err := decode(raw)
	if err != nil {
		parseErr := &ParseError{Key: r.key, Err: err}
		slog.Warn("Stored chats are unreadable, starting with an empty history.", "error", parseErr)
		return []model.Chat{}, nil
	}
	return chats, nil
}

func (r *chatRepository) persist(ctx context.Context, chats []model.Chat) error {
	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("could not encode chats: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("could not write chats: %w", err)
	}
	return nil
}

func decode(raw []byte) ([]model.Chat, error) {
	var chats []model.Chat
	if err := json.Unmarshal(raw, &chats); err != nil {
		return nil, err
	}
	if chats == nil {
		// A literal "null" payload.
		return []model.Chat{}, nil
	}
	for i := range chats {
		if chats[i].ID == "" {
			return nil, errors.New("chat record without id")
		}
		if chats[i].Messages == nil {
			chats[i].Messages = []model.Message{}
		}
	}
	return chats, nil
}
