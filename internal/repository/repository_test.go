package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketchat/internal/kvstore"
	"pocketchat/internal/model"
	"pocketchat/internal/repository"
)

// failingStore returns err from every call.
type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingStore) Set(context.Context, string, []byte) error          { return f.err }
func (f failingStore) Delete(context.Context, string) error               { return f.err }

func newChat(id string, ts int64) *model.Chat {
	c := model.NewChat(id, "gpt-4", time.UnixMilli(ts))
	return c
}

func TestChatRepository_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty slot yields empty history", func(t *testing.T) {
		repo := repository.NewChatRepository(kvstore.NewMemoryStore(), "")

		chats, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, chats)
		assert.Empty(t, chats)
	})

	t.Run("Malformed payload degrades to empty history", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.DefaultKey, []byte(`{not json`)))
		repo := repository.NewChatRepository(store, "")

		chats, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, chats)
	})

	t.Run("Wrong shape degrades to empty history", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.DefaultKey, []byte(`{"id":"a"}`)))
		repo := repository.NewChatRepository(store, "")

		chats, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, chats)
	})

	t.Run("Store failure is returned", func(t *testing.T) {
		repo := repository.NewChatRepository(failingStore{err: assert.AnError}, "")

		_, err := repo.LoadAll(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Persisted form matches the stored JSON layout", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		repo := repository.NewChatRepository(store, "custom")
		chat := newChat("c1", 1000)
		chat.Append(model.NewMessage("m1", model.RoleUser, "hi", time.UnixMilli(2000)), time.UnixMilli(2000))
		require.NoError(t, repo.Save(ctx, chat))

		raw, found, err := store.Get(ctx, "custom")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `[{"id":"c1","title":"hi","model":"gpt-4","timestamp":2000,
			"messages":[{"id":"m1","role":"user","content":"hi","timestamp":2000}]}]`, string(raw))
	})
}

func TestChatRepository_SaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(kvstore.NewMemoryStore(), "")
	rng := rand.New(rand.NewSource(7))

	latest := map[string]string{}
	ids := []string{"a", "b", "c", "d"}
	for i := 0; i < 50; i++ {
		id := ids[rng.Intn(len(ids))]
		chat := newChat(id, int64(i))
		chat.Title = id + "-" + string(rune('A'+i%26))
		require.NoError(t, repo.Save(ctx, chat))
		latest[id] = chat.Title
	}

	chats, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, chats, len(latest))

	seen := map[string]bool{}
	for _, c := range chats {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.Equal(t, latest[c.ID], c.Title)
	}
}

func TestChatRepository_SaveKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(kvstore.NewMemoryStore(), "")

	require.NoError(t, repo.Save(ctx, newChat("a", 1)))
	require.NoError(t, repo.Save(ctx, newChat("b", 2)))
	updated := newChat("a", 3)
	updated.Title = "updated"
	require.NoError(t, repo.Save(ctx, updated))

	chats, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "a", chats[0].ID)
	assert.Equal(t, "updated", chats[0].Title)
}

func TestChatRepository_SaveDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(kvstore.NewMemoryStore(), "")
	chat := newChat("a", 1)
	require.NoError(t, repo.Save(ctx, chat))

	chat.Messages = append(chat.Messages, model.NewMessage("m", model.RoleUser, "x", time.Now()))

	stored, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, stored.Messages)
}

func TestChatRepository_SaveRejectsMissingID(t *testing.T) {
	repo := repository.NewChatRepository(kvstore.NewMemoryStore(), "")
	assert.Error(t, repo.Save(context.Background(), &model.Chat{}))
	assert.Error(t, repo.Save(context.Background(), nil))
}

func TestChatRepository_DeleteAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(kvstore.NewMemoryStore(), "")
	require.NoError(t, repo.Save(ctx, newChat("a", 1)))
	require.NoError(t, repo.Save(ctx, newChat("b", 2)))

	t.Run("Get finds a stored chat", func(t *testing.T) {
		chat, err := repo.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", chat.ID)
	})

	t.Run("Delete then Get is not found", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "a"))

		_, err := repo.Get(ctx, "a")
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("Deleting a missing id leaves the collection unchanged", func(t *testing.T) {
		before, err := repo.LoadAll(ctx)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, "does-not-exist"))

		after, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestChatRepository_ClearAll(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := repository.NewChatRepository(store, "")
	require.NoError(t, repo.Save(ctx, newChat("a", 1)))

	require.NoError(t, repo.ClearAll(ctx))

	_, found, err := store.Get(ctx, repository.DefaultKey)
	require.NoError(t, err)
	assert.False(t, found, "the slot itself must be removed")

	chats, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestChatRepository_NullMessagesAreNormalized(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	payload, err := json.Marshal([]map[string]any{{"id": "a", "title": "", "messages": nil, "model": "m", "timestamp": 1}})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, repository.DefaultKey, payload))

	chat, err := repository.NewChatRepository(store, "").Get(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, chat.Messages)
}

func TestParseError(t *testing.T) {
	err := &repository.ParseError{Key: "k", Err: assert.AnError}
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `"k"`)
}
