package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/settings"
)

// Setting keys. Each value is stored as JSON.
const (
	KeyCategories          = "categories"
	KeyTeachers            = "teachers"
	KeyBookingWindow       = "booking_window"
	KeyNoSpectacleText     = "no_spectacle_text"
	KeyTeacherStyle        = "teacher_display_style"
	KeyFormFields          = "form_fields"
	KeyClientEmailTemplate = "client_email_template"
	KeyNotificationEmail   = "notification_email"
	KeyRibbon              = "ribbon"
	KeyStartTime           = "start_time"
	KeyEndTime             = "end_time"
)

// SQLiteStore implements Store over the setting key/value table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// fields binds every key to its place in s.
func fields(s *domain.Settings) map[string]any {
	return map[string]any{
		KeyCategories:          &s.Categories,
		KeyTeachers:            &s.Teachers,
		KeyBookingWindow:       &s.BookingWindow,
		KeyNoSpectacleText:     &s.NoSpectacleText,
		KeyTeacherStyle:        &s.TeacherStyle,
		KeyFormFields:          &s.FormFields,
		KeyClientEmailTemplate: &s.ClientEmailTemplate,
		KeyNotificationEmail:   &s.NotificationEmail,
		KeyRibbon:              &s.Ribbon,
		KeyStartTime:           &s.StartTime,
		KeyEndTime:             &s.EndTime,
	}
}

// Load returns the persisted settings; keys never saved keep their defaults.
// PRE: none
// POST: Returns a complete Settings value
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Load(ctx context.Context) (domain.Settings, error) {
	out := domain.Defaults()
	bind := fields(&out)

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM setting`)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.Settings{}, err
		}
		dst, ok := bind[key]
		if !ok {
			continue
		}
		// Lists replace the defaults rather than merging into them.
		switch key {
		case KeyCategories:
			out.Categories = nil
		case KeyTeachers:
			out.Teachers = nil
		case KeyFormFields:
			out.FormFields = nil
		}
		if err := json.Unmarshal([]byte(value), dst); err != nil {
			return domain.Settings{}, fmt.Errorf("decode setting %q: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Settings{}, err
	}
	return out, nil
}

// Save validates and upserts every key in one transaction.
// PRE: value passes Validate
// POST: All keys are persisted with the same updated_at
func (s *SQLiteStore) Save(ctx context.Context, value domain.Settings) error {
	if err := value.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for key, src := range fields(&value) {
		raw, err := json.Marshal(src)
		if err != nil {
			return fmt.Errorf("encode setting %q: %w", key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO setting (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value=excluded.value,
				updated_at=excluded.updated_at
		`, key, string(raw), now)
		if err != nil {
			return fmt.Errorf("save setting %q: %w", key, err)
		}
	}
	return tx.Commit()
}

// IsSeeded reports whether any setting has been saved.
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) IsSeeded(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM setting`).Scan(&n); err != nil {
		return false, fmt.Errorf("count settings: %w", err)
	}
	return n > 0, nil
}
