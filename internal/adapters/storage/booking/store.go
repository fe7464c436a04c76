package booking

import (
	"context"

	domain "planning/internal/domain/booking"
)

// Store persists the local booking log.
type Store interface {
	Save(ctx context.Context, value domain.Record) error
	GetByID(ctx context.Context, id string) (domain.Record, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Record, error)
}
