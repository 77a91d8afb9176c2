package service

import (
	"context"
	"slices"
)

// ModelInfo describes one entry of the model selector.
type ModelInfo struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// ModelService handles the model selector catalogue.
type ModelService struct {
	models       []string
	defaultModel string
}

// NewModelService creates a catalogue. The default model is added when it is
// missing from models so the selector can always show it.
func NewModelService(models []string, defaultModel string) *ModelService {
	catalogue := slices.Clone(models)
	if defaultModel != "" && !slices.Contains(catalogue, defaultModel) {
		catalogue = append([]string{defaultModel}, catalogue...)
	}
	if defaultModel == "" && len(catalogue) > 0 {
		defaultModel = catalogue[0]
	}
	return &ModelService{models: catalogue, defaultModel: defaultModel}
}

// List returns the selectable models in catalogue order.
func (s *ModelService) List(ctx context.Context) ([]ModelInfo, error) {
	out := make([]ModelInfo, len(s.models))
	for i, name := range s.models {
		out[i] = ModelInfo{Name: name, Default: name == s.defaultModel}
	}
	return out, nil
}

// IsKnown reports whether name is in the catalogue.
func (s *ModelService) IsKnown(name string) bool {
	return slices.Contains(s.models, name)
}

// Default is the configured fallback model.
func (s *ModelService) Default() string {
	return s.defaultModel
}
