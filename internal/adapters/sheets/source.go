package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"planning/internal/adapters/http/perf"
)

// DefaultReadRange covers the header rows, the time axis and 12 course columns.
const DefaultReadRange = "A1:R60"

// ErrNoSpreadsheet is returned when no spreadsheet ID is configured.
var ErrNoSpreadsheet = errors.New("spreadsheet ID is required")

// ScheduleSource provides the raw schedule matrix.
type ScheduleSource interface {
	FetchSchedule(ctx context.Context) ([][]string, error)
}

// Reader fetches the schedule from a Google spreadsheet with an API key.
type Reader struct {
	service       *gsheets.Service
	spreadsheetID string
	readRange     string
	collector     *perf.Collector
}

// NewReader creates a Sheets reader.
// PRE: spreadsheetID is non-empty; extra options override the API key transport
// POST: Returns a reader bound to readRange (DefaultReadRange when empty)
func NewReader(ctx context.Context, apiKey, spreadsheetID, readRange string, collector *perf.Collector, opts ...option.ClientOption) (*Reader, error) {
	if spreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}
	if readRange == "" {
		readRange = DefaultReadRange
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Reader{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		collector:     collector,
	}, nil
}

// FetchSchedule reads the configured range.
// POST: Every cell is converted to its string form; trailing empty cells may be absent
func (r *Reader) FetchSchedule(ctx context.Context) ([][]string, error) {
	start := time.Now()
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, r.readRange).Context(ctx).Do()
	r.collector.RecordUpstream("sheets.values.get", start, err)
	if err != nil {
		slog.Error("sheets_fetch_failed", "spreadsheet", r.spreadsheetID, "range", r.readRange, "error", err)
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	slog.Debug("sheets_fetched", "rows", len(resp.Values), "duration_ms", time.Since(start).Milliseconds())
	return toStrings(resp.Values), nil
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				out[i][j] = s
			} else {
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}

// FileSource reads the schedule from a CSV export of the spreadsheet.
type FileSource struct {
	Path string
}

// FetchSchedule parses the whole file on every call.
// PRE: Path names a readable CSV file; rows may have differing lengths
func (f FileSource) FetchSchedule(_ context.Context) ([][]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open schedule file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse schedule file %s: %w", f.Path, err)
	}
	return rows, nil
}

// StaticSource serves a fixed matrix; used by tests and demos.
type StaticSource [][]string

// FetchSchedule returns the matrix unchanged.
func (s StaticSource) FetchSchedule(_ context.Context) ([][]string, error) {
	return s, nil
}
