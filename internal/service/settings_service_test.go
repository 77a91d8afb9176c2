package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "pocketchat/internal/errors"
	"pocketchat/internal/kvstore"
	"pocketchat/internal/service"
)

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, b.err }
func (b brokenStore) Set(context.Context, string, []byte) error          { return b.err }
func (b brokenStore) Delete(context.Context, string) error               { return b.err }

func setupSettingsService(t *testing.T) (*service.SettingsService, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	models := service.NewModelService([]string{"gpt-3.5-turbo", "gpt-4"}, "gpt-3.5-turbo")
	return service.NewSettingsService(store, models), store
}

func TestSettingsService_InitAndGet(t *testing.T) {
	ctx := context.Background()
	defaults := service.Settings{SystemPrompt: "be helpful", DefaultModel: "gpt-4"}

	t.Run("Success - Seeds defaults on first boot", func(t *testing.T) {
		// ARRANGE
		svc, store := setupSettingsService(t)

		// ACT
		settings, err := svc.InitAndGet(ctx, defaults)

		// ASSERT
		require.NoError(t, err)
		assert.Equal(t, defaults, *settings)

		raw, found, err := store.Get(ctx, "settings")
		require.NoError(t, err)
		require.True(t, found)
		var stored service.Settings
		require.NoError(t, json.Unmarshal(raw, &stored))
		assert.Equal(t, defaults, stored)
	})

	t.Run("Success - Keeps existing settings", func(t *testing.T) {
		svc, store := setupSettingsService(t)
		existing := service.Settings{SystemPrompt: "custom", DefaultModel: "gpt-3.5-turbo"}
		raw, _ := json.Marshal(existing)
		require.NoError(t, store.Set(ctx, "settings", raw))

		settings, err := svc.InitAndGet(ctx, defaults)

		require.NoError(t, err)
		assert.Equal(t, existing, *settings)
	})

	t.Run("Success - Unknown default model falls back to catalogue default", func(t *testing.T) {
		svc, _ := setupSettingsService(t)

		settings, err := svc.InitAndGet(ctx, service.Settings{SystemPrompt: "p", DefaultModel: "nope"})

		require.NoError(t, err)
		assert.Equal(t, "gpt-3.5-turbo", settings.DefaultModel)
	})

	t.Run("Success - Stored model dropped from the catalogue is reset", func(t *testing.T) {
		// ARRANGE
		svc, store := setupSettingsService(t)
		stale := service.Settings{SystemPrompt: "custom", DefaultModel: "gpt-2"}
		raw, _ := json.Marshal(stale)
		require.NoError(t, store.Set(ctx, "settings", raw))

		// ACT
		settings, err := svc.InitAndGet(ctx, defaults)

		// ASSERT
		require.NoError(t, err)
		assert.Equal(t, "gpt-3.5-turbo", settings.DefaultModel)
		assert.Equal(t, "custom", settings.SystemPrompt, "the stored prompt is kept")

		raw, _, err = store.Get(ctx, "settings")
		require.NoError(t, err)
		var stored service.Settings
		require.NoError(t, json.Unmarshal(raw, &stored))
		assert.Equal(t, "gpt-3.5-turbo", stored.DefaultModel)
		assert.Equal(t, "gpt-3.5-turbo", svc.DefaultModel(ctx))
	})

	t.Run("Failure - Store error", func(t *testing.T) {
		models := service.NewModelService([]string{"gpt-4"}, "gpt-4")
		svc := service.NewSettingsService(brokenStore{err: errors.New("disk gone")}, models)

		_, err := svc.InitAndGet(ctx, defaults)

		assert.ErrorContains(t, err, "disk gone")
	})
}

func TestSettingsService_Save(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		input    service.Settings
		wantErr  error
		expected service.Settings
	}{
		{
			name:     "Success - prompt is trimmed",
			input:    service.Settings{SystemPrompt: "  terse  ", DefaultModel: "gpt-4"},
			expected: service.Settings{SystemPrompt: "terse", DefaultModel: "gpt-4"},
		},
		{
			name:    "Failure - blank prompt",
			input:   service.Settings{SystemPrompt: "   ", DefaultModel: "gpt-4"},
			wantErr: app_errors.ErrValidation,
		},
		{
			name:    "Failure - unknown model",
			input:   service.Settings{SystemPrompt: "ok", DefaultModel: "claude"},
			wantErr: app_errors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupSettingsService(t)
			_, err := svc.InitAndGet(ctx, service.Settings{SystemPrompt: "initial", DefaultModel: "gpt-3.5-turbo"})
			require.NoError(t, err)

			input := tt.input
			err = svc.Save(ctx, &input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				got, getErr := svc.Get(ctx)
				require.NoError(t, getErr)
				assert.Equal(t, "initial", got.SystemPrompt, "rejected settings must not be stored")
				return
			}
			require.NoError(t, err)
			got, err := svc.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *got)
			assert.Equal(t, tt.expected.SystemPrompt, svc.SystemPrompt(ctx))
			assert.Equal(t, tt.expected.DefaultModel, svc.DefaultModel(ctx))
		})
	}
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Unreadable settings fall back to defaults", func(t *testing.T) {
		svc, store := setupSettingsService(t)
		_, err := svc.InitAndGet(ctx, service.Settings{SystemPrompt: "fallback", DefaultModel: "gpt-4"})
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "settings", []byte("{broken")))

		got, err := svc.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, "fallback", got.SystemPrompt)
	})

	t.Run("Store failure keeps prompt available", func(t *testing.T) {
		models := service.NewModelService([]string{"gpt-4"}, "gpt-4")
		svc := service.NewSettingsService(brokenStore{err: errors.New("down")}, models)

		assert.Equal(t, "", svc.SystemPrompt(ctx))
		assert.Equal(t, "gpt-4", svc.DefaultModel(ctx))
	})
}
