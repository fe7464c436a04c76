package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"planning/internal/adapters/http/perf"
)

// AppendRange spans the 19 booking columns A..S.
const AppendRange = "A:S"

// Google's OAuth2 endpoints; the consent flow itself happens outside this service.
const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

// Credentials identify an OAuth client and a long-lived refresh token.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Complete reports whether every field is set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// TokenSource exchanges the refresh token for access tokens as needed.
// PRE: creds.Complete()
// POST: Returned source caches the access token until it expires
func TokenSource(ctx context.Context, creds Credentials, tokenURL string) oauth2.TokenSource {
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}
	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: tokenURL,
		},
		Scopes: []string{gsheets.SpreadsheetsScope},
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
}

// Appender appends booking rows to a spreadsheet.
type Appender struct {
	service       *gsheets.Service
	spreadsheetID string
	collector     *perf.Collector
}

// NewAppender creates an appender authenticated by ts.
// PRE: spreadsheetID is non-empty
func NewAppender(ctx context.Context, spreadsheetID string, ts oauth2.TokenSource, collector *perf.Collector, opts ...option.ClientOption) (*Appender, error) {
	if spreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}
	if ts != nil {
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Appender{service: service, spreadsheetID: spreadsheetID, collector: collector}, nil
}

// AppendRow appends one row as raw values after the last filled row.
// POST: On error nothing is retried
func (a *Appender) AppendRow(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	vr := &gsheets.ValueRange{Values: [][]interface{}{values}}

	start := time.Now()
	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, AppendRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	a.collector.RecordUpstream("sheets.values.append", start, err)
	if err != nil {
		slog.Error("sheets_append_failed", "spreadsheet", a.spreadsheetID, "error", err)
		return fmt.Errorf("append row: %w", err)
	}
	slog.Info("sheets_row_appended", "spreadsheet", a.spreadsheetID)
	return nil
}

// LogAppender logs rows instead of writing them; used when no credentials are configured.
type LogAppender struct{}

// AppendRow logs the row.
func (LogAppender) AppendRow(_ context.Context, row []string) error {
	slog.Info("sheets_row_noop", "columns", len(row))
	return nil
}
