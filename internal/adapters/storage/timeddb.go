package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"planning/internal/adapters/http/perf"
)

// SQLDB is the database interface used by the settings and booking stores.
// Both *sql.DB and *TimedDB satisfy it.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQuery is the threshold above which a statement logs at WARN.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB to log slow statements and record them to a collector.
// Entries are keyed by statement verb and table ("UPDATE setting").
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	slow      time.Duration
}

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is open; collector may be nil; slow <= 0 means DefaultSlowQuery
func NewTimedDB(db *sql.DB, collector *perf.Collector, slow time.Duration) *TimedDB {
	if slow <= 0 {
		slow = DefaultSlowQuery
	}
	return &TimedDB{db: db, collector: collector, slow: slow}
}

// queryLabel names a statement by its verb and table ("SELECT setting").
func queryLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "?"
	}
	verb := strings.ToUpper(fields[0])
	for i, f := range fields[:len(fields)-1] {
		switch strings.ToUpper(f) {
		case "FROM", "INTO", "UPDATE":
			return verb + " " + strings.Trim(fields[i+1], "(`\"")
		}
	}
	return verb
}

func (t *TimedDB) observe(ctx context.Context, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	label := queryLabel(query)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	switch {
	case err != nil && ctx.Err() == nil:
		slog.Warn("query_failed", "query", label, "duration_ms", durationMs, "error", err)
	case elapsed >= t.slow:
		slog.Warn("slow_query", "query", label, "duration_ms", durationMs)
	default:
		slog.Debug("query", "query", label, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(ctx, query, start, err)
	return result, err
}

func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(ctx, query, start, err)
	return rows, err
}

// QueryRowContext records the time to the first row; scan errors are not seen here.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(ctx, query, start, row.Err())
	return row
}

func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe(ctx, "BEGIN", start, err)
	return tx, err
}
