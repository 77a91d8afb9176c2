package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	app_errors "pocketchat/internal/errors"
	"pocketchat/internal/kvstore"
)

const settingsKey = "settings"

// Settings holds the user-editable preferences stored next to the chat history.
type Settings struct {
	SystemPrompt string `json:"system_prompt"`
	DefaultModel string `json:"default_model"`
}

type SettingsService struct {
	store  kvstore.Store
	models *ModelService

	mu       sync.RWMutex
	defaults Settings
}

func NewSettingsService(store kvstore.Store, models *ModelService) *SettingsService {
	return &SettingsService{store: store, models: models}
}

// InitAndGet returns the stored settings, seeding them from defaults on first boot.
// A default model missing from the catalogue is replaced by the catalogue default.
func (s *SettingsService) InitAndGet(ctx context.Context, defaults Settings) (*Settings, error) {
	if !s.models.IsKnown(defaults.DefaultModel) {
		slog.Warn("Configured default model is not in the catalogue, using the catalogue default.",
			"configured", defaults.DefaultModel, "fallback", s.models.Default())
		defaults.DefaultModel = s.models.Default()
	}

	s.mu.Lock()
	s.defaults = defaults
	s.mu.Unlock()

	existing, found, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		slog.Info("Found existing settings.")
		if s.models.IsKnown(existing.DefaultModel) {
			return existing, nil
		}
		// The catalogue changed since the settings were saved.
		slog.Warn("Stored default model is no longer available, resetting it.",
			"stored", existing.DefaultModel, "fallback", s.models.Default())
		existing.DefaultModel = s.models.Default()
		if err := s.save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to repair settings: %w", err)
		}
		return existing, nil
	}

	slog.Info("No settings found. Saving defaults from configuration.")
	if err := s.save(ctx, &defaults); err != nil {
		return nil, fmt.Errorf("failed to save initial settings: %w", err)
	}
	return &defaults, nil
}

// Get retrieves the current settings, falling back to the defaults when none are stored.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	settings, found, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		s.mu.RLock()
		defaults := s.defaults
		s.mu.RUnlock()
		return &defaults, nil
	}
	return settings, nil
}

// Save validates and stores settings.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	settings.SystemPrompt = strings.TrimSpace(settings.SystemPrompt)
	if settings.SystemPrompt == "" {
		return fmt.Errorf("%w: system prompt cannot be empty", app_errors.ErrValidation)
	}
	if !s.models.IsKnown(settings.DefaultModel) {
		return fmt.Errorf("%w: model '%s' is not available", app_errors.ErrValidation, settings.DefaultModel)
	}
	return s.save(ctx, settings)
}

// SystemPrompt implements llm.PromptSource.
func (s *SettingsService) SystemPrompt(ctx context.Context) string {
	settings, err := s.Get(ctx)
	if err != nil {
		slog.Warn("Could not read settings, using the configured system prompt.", "error", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.defaults.SystemPrompt
	}
	return settings.SystemPrompt
}

// DefaultModel is the model attached to newly created chats.
func (s *SettingsService) DefaultModel(ctx context.Context) string {
	settings, err := s.Get(ctx)
	if err != nil || settings.DefaultModel == "" {
		return s.models.Default()
	}
	return settings.DefaultModel
}

func (s *SettingsService) load(ctx context.Context) (*Settings, bool, error) {
	raw, found, err := s.store.Get(ctx, settingsKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var settings Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		slog.Warn("Stored settings are unreadable, ignoring them.", "error", err)
		return nil, false, nil
	}
	return &settings, true, nil
}

func (s *SettingsService) save(ctx context.Context, settings *Settings) error {
	val, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return s.store.Set(ctx, settingsKey, val)
}
