package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/booking"
)

// ErrNotFound is returned when no booking has the requested ID.
var ErrNotFound = errors.New("booking not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new booking store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a booking record.
// PRE: value passes Validate
// POST: The record is persisted; an existing ID is an error
func (s *SQLiteStore) Save(ctx context.Context, value domain.Record) error {
	if err := value.Validate(); err != nil {
		return err
	}
	courses, err := json.Marshal(value.Request.Courses)
	if err != nil {
		return fmt.Errorf("encode courses: %w", err)
	}
	form, err := json.Marshal(value.Request.Form)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO booking (id, email, first_name, last_name, courses, form, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		value.ID,
		value.Request.Email(),
		value.Request.FirstName(),
		value.Request.LastName(),
		string(courses),
		string(form),
		value.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save booking: %w", err)
	}
	return nil
}

// GetByID retrieves one booking.
// PRE: id is non-empty
// POST: Returns the record or ErrNotFound
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, courses, form, created_at FROM booking WHERE id = ?
	`, id)
	return scanRecord(row.Scan)
}

// ListRecent returns at most limit bookings, newest first.
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, courses, form, created_at FROM booking
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (domain.Record, error) {
	var r domain.Record
	var courses, form, createdAt string
	if err := scan(&r.ID, &courses, &form, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, ErrNotFound
		}
		return domain.Record{}, err
	}
	if err := json.Unmarshal([]byte(courses), &r.Request.Courses); err != nil {
		return domain.Record{}, fmt.Errorf("decode courses: %w", err)
	}
	if err := json.Unmarshal([]byte(form), &r.Request.Form); err != nil {
		return domain.Record{}, fmt.Errorf("decode form: %w", err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return domain.Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	r.CreatedAt = t
	return r, nil
}
