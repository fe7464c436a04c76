package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "planning/internal/adapters/email"
	"planning/internal/domain/booking"
	"planning/internal/domain/settings"
)

// ErrNotificationFailed wraps an email delivery failure after the booking was recorded.
var ErrNotificationFailed = errors.New("booking notification failed")

// SettingsLoader reads the current settings.
type SettingsLoader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// RowAppender appends one row to the booking spreadsheet.
type RowAppender interface {
	AppendRow(ctx context.Context, row []string) error
}

// BookingStoreForOrchestrator keeps the local booking log.
type BookingStoreForOrchestrator interface {
	Save(ctx context.Context, value booking.Record) error
}

// RecordBookingDeps holds dependencies for ExecuteRecordBooking.
type RecordBookingDeps struct {
	Settings   SettingsLoader
	Rows       RowAppender
	Bookings   BookingStoreForOrchestrator
	Sender     emailAdapter.Sender
	From       string
	ReplyTo    string
	SchoolName string
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRecordBooking appends one sheet row per course, logs the booking
// locally and notifies the school and the visitor.
// PRE: req passes Validate
// POST: Rows are appended in cart order; any failed step returns an error
// and later steps do not run
func ExecuteRecordBooking(ctx context.Context, req booking.Request, deps RecordBookingDeps) (booking.Record, error) {
	if err := req.Validate(); err != nil {
		return booking.Record{}, fmt.Errorf("validation: %w", err)
	}
	cfg, err := deps.Settings.Load(ctx)
	if err != nil {
		return booking.Record{}, fmt.Errorf("load settings: %w", err)
	}

	now := deps.Now()
	for i, row := range req.SheetRows(now) {
		if err := deps.Rows.AppendRow(ctx, row); err != nil {
			slog.Error("booking_row_append_failed", "course", i, "error", err)
			return booking.Record{}, fmt.Errorf("append course %d: %w", i, err)
		}
	}

	rec := booking.Record{ID: deps.GenerateID(), Request: req, CreatedAt: now.UTC()}
	if err := deps.Bookings.Save(ctx, rec); err != nil {
		return booking.Record{}, fmt.Errorf("save booking: %w", err)
	}

	reqs, err := notifications(req, cfg, deps, now)
	if err != nil {
		return rec, err
	}
	if _, err := deps.Sender.SendBatch(ctx, reqs); err != nil {
		slog.Error("booking_notification_failed", "booking_id", rec.ID, "error", err)
		return rec, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	slog.Info("booking_recorded", "booking_id", rec.ID, "courses", len(req.Courses), "emails", len(reqs))
	return rec, nil
}

// notifications builds the admin message (when a notification address is set)
// followed by the visitor confirmation.
func notifications(req booking.Request, cfg settings.Settings, deps RecordBookingDeps, now time.Time) ([]emailAdapter.SendRequest, error) {
	var out []emailAdapter.SendRequest
	if cfg.NotificationEmail != "" {
		admin, err := toSendRequest(req.AdminMessage(), cfg.NotificationEmail, deps.From, req.Email())
		if err != nil {
			return nil, err
		}
		out = append(out, admin)
	} else {
		slog.Warn("booking_admin_email_skipped", "reason", "no notification email configured")
	}
	client, err := toSendRequest(req.ClientMessage(cfg.ClientEmailTemplate, deps.SchoolName, now), req.Email(), deps.From, deps.ReplyTo)
	if err != nil {
		return nil, err
	}
	return append(out, client), nil
}

// LocalEndpoint records bookings in-process.
type LocalEndpoint struct {
	Deps RecordBookingDeps
}

// Submit implements BookingEndpoint.
func (e LocalEndpoint) Submit(ctx context.Context, req booking.Request) error {
	_, err := ExecuteRecordBooking(ctx, req, e.Deps)
	return err
}

// SendTestEmailDeps holds dependencies for ExecuteSendTestEmail.
type SendTestEmailDeps struct {
	Settings SettingsLoader
	Sender   emailAdapter.Sender
	From     string
}

// ExecuteSendTestEmail sends the fixed test notification.
// PRE: to is an address, or empty to use the configured notification email
// POST: Returns the address the message was sent to
func ExecuteSendTestEmail(ctx context.Context, to string, deps SendTestEmailDeps) (string, error) {
	if to == "" {
		cfg, err := deps.Settings.Load(ctx)
		if err != nil {
			return "", fmt.Errorf("load settings: %w", err)
		}
		to = cfg.NotificationEmail
	}
	if to == "" {
		return "", errors.New("no recipient: pass an address or configure notification_email")
	}
	req, err := toSendRequest(booking.Message{Subject: booking.TestSubject, Body: booking.TestBody}, to, deps.From, "")
	if err != nil {
		return "", err
	}
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		return "", fmt.Errorf("send test email: %w", err)
	}
	slog.Info("test_email_sent", "to", to)
	return to, nil
}
