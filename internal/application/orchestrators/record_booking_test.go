package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	emailAdapter "planning/internal/adapters/email"
	"planning/internal/domain/booking"
	"planning/internal/domain/cart"
	"planning/internal/domain/settings"
)

var bookingDay = time.Date(2026, 9, 14, 18, 30, 0, 0, time.UTC)

func recordDeps(sender emailAdapter.Sender, rows *fakeRows, bookings *fakeBookings) RecordBookingDeps {
	cfg := settings.Defaults()
	cfg.NotificationEmail = "contact@enmouvance.fr"
	return RecordBookingDeps{
		Settings:   &fakeSettings{value: cfg},
		Rows:       rows,
		Bookings:   bookings,
		Sender:     sender,
		From:       "En Mouvance <planning@enmouvance.fr>",
		SchoolName: "En Mouvance",
		GenerateID: func() string { return "booking-001" },
		Now:        func() time.Time { return bookingDay },
	}
}

func twoCourseRequest() booking.Request {
	return booking.Request{
		Courses: []cart.Item{jazzKids, balletKids},
		Form:    map[string]string{"Nom": "Dupont", "Prénom": "Léa", "Email": "parent@example.com", "Téléphone": "0601020304"},
	}
}

func TestExecuteRecordBooking_Success(t *testing.T) {
	sender := emailAdapter.NewNoopSender()
	rows := &fakeRows{failAt: -1}
	bookings := &fakeBookings{}

	rec, err := ExecuteRecordBooking(context.Background(), twoCourseRequest(), recordDeps(sender, rows, bookings))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID != "booking-001" || !rec.CreatedAt.Equal(bookingDay) {
		t.Errorf("rec = %+v", rec)
	}
	if len(rows.rows) != 2 {
		t.Fatalf("rows = %d, want one per course", len(rows.rows))
	}
	if got := rows.rows[1]; len(got) != booking.SheetColumns || got[1] != "Dupont" || got[10] != "0601020304" || got[16] != "2026-09-14" {
		t.Errorf("row = %q", got)
	}
	if len(bookings.saved) != 1 {
		t.Errorf("saved = %d", len(bookings.saved))
	}

	sent := sender.Sent()
	if len(sent) != 2 {
		t.Fatalf("sent = %d emails, want admin + client", len(sent))
	}
	admin, client := sent[0], sent[1]
	if admin.To[0] != "contact@enmouvance.fr" || admin.ReplyTo != "parent@example.com" {
		t.Errorf("admin = %+v", admin)
	}
	if client.To[0] != "parent@example.com" || !strings.HasSuffix(client.Subject, " - En Mouvance") {
		t.Errorf("client = %+v", client)
	}
	if !strings.Contains(client.HTML, "<li>") || !strings.Contains(client.Text, "Bonjour Léa") {
		t.Errorf("client body html=%q text=%q", client.HTML, client.Text)
	}
}

func TestExecuteRecordBooking_RowFailureStops(t *testing.T) {
	sender := emailAdapter.NewNoopSender()
	rows := &fakeRows{failAt: 1}
	bookings := &fakeBookings{}

	if _, err := ExecuteRecordBooking(context.Background(), twoCourseRequest(), recordDeps(sender, rows, bookings)); err == nil {
		t.Fatal("expected error")
	}
	if len(bookings.saved) != 0 || len(sender.Sent()) != 0 {
		t.Errorf("later steps ran: saved=%d sent=%d", len(bookings.saved), len(sender.Sent()))
	}
}

func TestExecuteRecordBooking_EmailFailure(t *testing.T) {
	rows := &fakeRows{failAt: -1}
	bookings := &fakeBookings{}
	rec, err := ExecuteRecordBooking(context.Background(), twoCourseRequest(), recordDeps(failingSender{}, rows, bookings))
	if !errors.Is(err, ErrNotificationFailed) {
		t.Fatalf("err = %v, want ErrNotificationFailed", err)
	}
	if rec.ID == "" || len(bookings.saved) != 1 {
		t.Error("booking should be recorded before notifications")
	}

	// Through the endpoint the same failure is a submission failure.
	carts := newMemCarts("v1")
	carts.carts["v1"] = cart.New(jazzKids)
	endpoint := LocalEndpoint{Deps: recordDeps(failingSender{}, &fakeRows{failAt: -1}, &fakeBookings{})}
	_, err = ExecuteSubmitBooking(context.Background(), SubmitBookingInput{Visitor: "v1", Form: twoCourseRequest().Form},
		SubmitBookingDeps{Carts: carts, Endpoint: endpoint})
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Errorf("err = %v, want ErrSubmissionFailed", err)
	}
	if c, _ := carts.Cart("v1"); c.Len() != 1 {
		t.Error("cart cleared despite failure")
	}
}

func TestExecuteRecordBooking_NoAdminAddress(t *testing.T) {
	sender := emailAdapter.NewNoopSender()
	deps := recordDeps(sender, &fakeRows{failAt: -1}, &fakeBookings{})
	deps.Settings = &fakeSettings{value: settings.Defaults()}

	if _, err := ExecuteRecordBooking(context.Background(), twoCourseRequest(), deps); err != nil {
		t.Fatalf("record: %v", err)
	}
	if sent := sender.Sent(); len(sent) != 1 || sent[0].To[0] != "parent@example.com" {
		t.Errorf("sent = %+v, want only the client email", sent)
	}
}

func TestExecuteRecordBooking_Invalid(t *testing.T) {
	req := booking.Request{Courses: []cart.Item{jazzKids}, Form: map[string]string{"Nom": "Dupont"}}
	_, err := ExecuteRecordBooking(context.Background(), req, recordDeps(emailAdapter.NewNoopSender(), &fakeRows{failAt: -1}, &fakeBookings{}))
	if !errors.Is(err, booking.ErrNoEmail) {
		t.Errorf("err = %v, want ErrNoEmail", err)
	}
}

func TestExecuteSendTestEmail(t *testing.T) {
	sender := emailAdapter.NewNoopSender()
	cfg := settings.Defaults()
	cfg.NotificationEmail = "contact@enmouvance.fr"
	deps := SendTestEmailDeps{Settings: &fakeSettings{value: cfg}, Sender: sender}

	to, err := ExecuteSendTestEmail(context.Background(), "", deps)
	if err != nil || to != "contact@enmouvance.fr" {
		t.Fatalf("to = %q, err = %v", to, err)
	}
	if sent := sender.Sent(); len(sent) != 1 || sent[0].Subject != booking.TestSubject {
		t.Errorf("sent = %+v", sent)
	}

	deps.Settings = &fakeSettings{value: settings.Defaults()}
	if _, err := ExecuteSendTestEmail(context.Background(), "", deps); err == nil {
		t.Error("expected error without any recipient")
	}
}

func TestRenderMarkdown_EscapesHTML(t *testing.T) {
	html, err := RenderMarkdown("* <script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML passed through: %q", html)
	}
}
