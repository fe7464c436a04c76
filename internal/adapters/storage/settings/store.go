package settings

import (
	"context"

	domain "planning/internal/domain/settings"
)

// Store persists the settings aggregate.
type Store interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, value domain.Settings) error
	IsSeeded(ctx context.Context) (bool, error)
}
