package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"planning/internal/domain/settings"
)

// SettingsStoreForOrchestrator reads and writes the settings aggregate.
type SettingsStoreForOrchestrator interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, value settings.Settings) error
	IsSeeded(ctx context.Context) (bool, error)
}

// SeedSettingsDeps holds dependencies for ExecuteSeedSettings.
type SeedSettingsDeps struct {
	Settings SettingsStoreForOrchestrator
}

// ExecuteSeedSettings writes the default settings on first start.
// POST: An already seeded store is left untouched
func ExecuteSeedSettings(ctx context.Context, deps SeedSettingsDeps) error {
	seeded, err := deps.Settings.IsSeeded(ctx)
	if err != nil {
		return fmt.Errorf("check seeded: %w", err)
	}
	if seeded {
		return nil
	}
	if err := deps.Settings.Save(ctx, settings.Defaults()); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	slog.Info("settings_seeded")
	return nil
}

// ExecuteImportSettings replaces the stored settings with a JSON document.
// Keys absent from data keep their default values.
// PRE: data is a JSON object using the Settings field names
// POST: Stored settings pass Validate
func ExecuteImportSettings(ctx context.Context, data []byte, deps SeedSettingsDeps) (settings.Settings, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return settings.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	defaults := settings.Defaults()
	value := defaults
	// Decoding into a non-empty slice reuses its elements, so lists start empty.
	value.Categories, value.Teachers, value.FormFields = nil, nil, nil
	if err := json.Unmarshal(data, &value); err != nil {
		return settings.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if _, ok := present["categories"]; !ok {
		value.Categories = defaults.Categories
	}
	if _, ok := present["teachers"]; !ok {
		value.Teachers = defaults.Teachers
	}
	if _, ok := present["form_fields"]; !ok {
		value.FormFields = defaults.FormFields
	}
	if err := value.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("validation: %w", err)
	}
	if err := deps.Settings.Save(ctx, value); err != nil {
		return settings.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	slog.Info("settings_imported", "categories", len(value.Categories), "teachers", len(value.Teachers))
	return value, nil
}

// ExecuteExportSettings returns the stored settings as indented JSON.
func ExecuteExportSettings(ctx context.Context, deps SeedSettingsDeps) ([]byte, error) {
	value, err := deps.Settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return json.MarshalIndent(value, "", "  ")
}
