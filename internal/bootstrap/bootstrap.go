// Package bootstrap builds the adapters shared by the server and the operator CLI from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"planning/internal/adapters/bookingclient"
	emailPkg "planning/internal/adapters/email"
	"planning/internal/adapters/http/perf"
	"planning/internal/adapters/sheets"
	"planning/internal/adapters/storage"
	bookingStore "planning/internal/adapters/storage/booking"
	settingsStore "planning/internal/adapters/storage/settings"
	"planning/internal/application/orchestrators"
	"planning/internal/config"
)

// OpenDB opens SQLite with WAL mode, foreign keys and busy timeout, then migrates.
// PRE: path is a file path or ":memory:"
// POST: The schema is at storage.LatestSchemaVersion()
func OpenDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := storage.MigrateDB(db, path); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Stores are the SQLite-backed stores over one timed connection.
type Stores struct {
	Settings *settingsStore.SQLiteStore
	Bookings *bookingStore.SQLiteStore
}

// NewStores wraps db with query timing and builds every store.
// PRE: slowQuery <= 0 means storage.DefaultSlowQuery
func NewStores(db *sql.DB, collector *perf.Collector, slowQuery time.Duration) Stores {
	timedDB := storage.NewTimedDB(db, collector, slowQuery)
	return Stores{
		Settings: settingsStore.NewSQLiteStore(timedDB),
		Bookings: bookingStore.NewSQLiteStore(timedDB),
	}
}

// ScheduleSource prefers a local CSV file, then the published spreadsheet.
func ScheduleSource(ctx context.Context, cfg config.Config, collector *perf.Collector) (sheets.ScheduleSource, error) {
	if cfg.ScheduleFile != "" {
		slog.Info("schedule_source_configured", "kind", "file", "path", cfg.ScheduleFile)
		return sheets.FileSource{Path: cfg.ScheduleFile}, nil
	}
	reader, err := sheets.NewReader(ctx, cfg.SheetsAPIKey, cfg.SpreadsheetID, cfg.ReadRange, collector)
	if err != nil {
		return nil, err
	}
	slog.Info("schedule_source_configured", "kind", "sheets", "range", cfg.ReadRange)
	return reader, nil
}

// RowAppender writes booking rows to the booking sheet, or logs them when no credentials are set.
func RowAppender(ctx context.Context, cfg config.Config, collector *perf.Collector) (orchestrators.RowAppender, error) {
	if !cfg.SheetsCredentialsSet() {
		if cfg.IsProduction() {
			slog.Warn("booking_sheet_disabled", "hint", "set PLANNING_BOOKING_SPREADSHEET_ID and Google OAuth credentials")
		}
		return sheets.LogAppender{}, nil
	}
	ts := sheets.TokenSource(ctx, sheets.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
	}, "")
	return sheets.NewAppender(ctx, cfg.BookingSpreadsheetID, ts, collector)
}

// Sender delivers through Resend when a key is configured, otherwise keeps messages in memory.
func Sender(cfg config.Config, collector *perf.Collector) emailPkg.Sender {
	if cfg.ResendKey != "" {
		slog.Info("email_sender_configured", "provider", "resend")
		return emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom, collector)
	}
	if cfg.IsProduction() {
		slog.Warn("email_delivery_disabled", "hint", "set PLANNING_RESEND_KEY")
	}
	return emailPkg.NewNoopSender()
}

// RecordBookingDeps assembles the in-process booking recorder.
func RecordBookingDeps(cfg config.Config, stores Stores, rows orchestrators.RowAppender, sender emailPkg.Sender) orchestrators.RecordBookingDeps {
	return orchestrators.RecordBookingDeps{
		Settings:   stores.Settings,
		Rows:       rows,
		Bookings:   stores.Bookings,
		Sender:     sender,
		From:       cfg.EmailFrom,
		ReplyTo:    cfg.ReplyTo,
		SchoolName: cfg.SchoolName,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	}
}

// Endpoint returns the remote submission client when one is configured,
// otherwise records bookings in-process.
func Endpoint(cfg config.Config, recorder orchestrators.RecordBookingDeps, collector *perf.Collector) orchestrators.BookingEndpoint {
	if cfg.BookingEndpoint == "" {
		return orchestrators.LocalEndpoint{Deps: recorder}
	}
	client := bookingclient.New(cfg.BookingEndpoint, collector)
	client.Action = cfg.BookingAction
	client.Nonce = cfg.BookingNonce
	slog.Info("booking_endpoint_configured", "endpoint", cfg.BookingEndpoint)
	return client
}
