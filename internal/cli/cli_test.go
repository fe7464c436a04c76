package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	emailAdapter "planning/internal/adapters/email"
	"planning/internal/adapters/sheets"
	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
	"planning/internal/domain/booking"
	"planning/internal/domain/settings"
	"planning/internal/domain/teacher"
)

// memSettings implements orchestrators.SettingsStoreForOrchestrator.
type memSettings struct {
	value  settings.Settings
	seeded bool
}

func (m *memSettings) Load(context.Context) (settings.Settings, error) { return m.value, nil }

func (m *memSettings) Save(_ context.Context, v settings.Settings) error {
	m.value, m.seeded = v, true
	return nil
}

func (m *memSettings) IsSeeded(context.Context) (bool, error) { return m.seeded, nil }

type recordingEndpoint struct {
	calls []booking.Request
	err   error
}

func (e *recordingEndpoint) Submit(_ context.Context, req booking.Request) error {
	e.calls = append(e.calls, req)
	return e.err
}

func newContext(t *testing.T) (*Context, *bytes.Buffer, *recordingEndpoint, *emailAdapter.NoopSender) {
	t.Helper()
	cfg := settings.Defaults()
	cfg.StartTime, cfg.EndTime = "17:00", "18:00"
	cfg.Teachers = []teacher.Teacher{{FirstName: "Sarah", LastName: "Martin"}}
	cfg.NotificationEmail = "ecole@example.com"

	out := &bytes.Buffer{}
	endpoint := &recordingEndpoint{}
	sender := emailAdapter.NewNoopSender()
	ctx := &Context{
		Ctx:        context.Background(),
		Out:        out,
		Settings:   &memSettings{value: cfg, seeded: true},
		HeaderRows: 1,
		Source: func() (projections.PlanningScheduleSource, error) {
			return sheets.StaticSource{
				{"HEURE"},
				{"17:00", "Modern Jazz\nenfant\nSarah\n17:00 à 18:00", "", "Classique\nComplet\n17:15 à 17:45"},
			}, nil
		},
		Endpoint: func() (orchestrators.BookingEndpoint, error) { return endpoint, nil },
		Sender:   sender,
		From:     "noreply@example.com",
	}
	return ctx, out, endpoint, sender
}

func TestSlotsCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SlotsCmd
		first   string
		summary string
		wantErr bool
	}{
		{"configured hours", SlotsCmd{}, "17:00", "5 slots", false},
		{"explicit range", SlotsCmd{Start: "09:00", End: "09:30"}, "09:00", "3 slots", false},
		{"bad time", SlotsCmd{Start: "9h", End: "10:00"}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _, _ := newContext(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			if lines[0] != tt.first || lines[len(lines)-1] != tt.summary {
				t.Errorf("output = %q", out.String())
			}
		})
	}
}

func TestParseCmd(t *testing.T) {
	ctx, out, _, _ := newContext(t)
	cmd := ParseCmd{Cell: `Modern Jazz\nenfant\nSarah\nComplet\n17:00 à 18:00`}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"label:        Modern Jazz",
		"age:          ENFANT",
		"(60 min)",
		"rowspan:      4",
		"teacher:      Sarah\n",
		"complete:     true",
		"no spectacle: false",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestGridCmd(t *testing.T) {
	ctx, out, _, _ := newContext(t)
	if err := (&GridCmd{Width: 14}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"LUNDI 1", "SAMEDI 2", "17:00", "Modern Jazz", continued, "2 courses over 5 slots"} {
		if !strings.Contains(got, want) {
			t.Errorf("grid missing %q:\n%s", want, got)
		}
	}
}

func TestGridCmd_FileSource(t *testing.T) {
	ctx, out, _, _ := newContext(t)
	path := filepath.Join(t.TempDir(), "schedule.csv")
	csv := "HEURE\n17:30,,,,Barre au sol\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (&GridCmd{File: path, Width: 14}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "1 courses over 5 slots") {
		t.Errorf("output = %s", out.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Barre au sol", 20, "Barre au sol"},
		{"Contemporain", 6, "Conte…"},
		{"  Éveil  ", 0, "Éveil"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestSettingsExportImport(t *testing.T) {
	ctx, out, _, _ := newContext(t)
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := (&SettingsExportCmd{Output: path}).Run(ctx); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"ecole@example.com"`)) {
		t.Errorf("export missing notification email: %s", data)
	}

	ctx.Settings = &memSettings{value: settings.Defaults()}
	out.Reset()
	if err := (&SettingsImportCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, _ := ctx.Settings.Load(context.Background())
	if got.NotificationEmail != "ecole@example.com" || len(got.Teachers) != 1 {
		t.Errorf("imported = %+v", got)
	}
	if !strings.Contains(out.String(), "1 teachers") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSettingsImport_Invalid(t *testing.T) {
	ctx, _, _, _ := newContext(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"teacher_display_style":"hologram"}`), 0o644)

	if err := (&SettingsImportCmd{File: path}).Run(ctx); err == nil {
		t.Fatal("expected validation error")
	}
	got, _ := ctx.Settings.Load(context.Background())
	if got.NotificationEmail != "ecole@example.com" {
		t.Error("rejected import changed stored settings")
	}
}

func TestBookCmd(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "booking.json")
	os.WriteFile(valid, []byte(`{
		"courses": [{"title": "Barre au sol", "day": "MARDI", "time": "de 17:30 à 18:30"}],
		"form": {"Nom": "Dupont", "Email": "a@example.com"}
	}`), 0o644)
	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`{"courses": [], "form": {}}`), 0o644)

	t.Run("submits", func(t *testing.T) {
		ctx, out, endpoint, _ := newContext(t)
		if err := (&BookCmd{File: valid}).Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(endpoint.calls) != 1 || endpoint.calls[0].Form["Nom"] != "Dupont" {
			t.Errorf("calls = %+v", endpoint.calls)
		}
		if !strings.Contains(out.String(), "1 course(s)") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("rejects empty selection", func(t *testing.T) {
		ctx, _, endpoint, _ := newContext(t)
		if err := (&BookCmd{File: empty}).Run(ctx); !errors.Is(err, booking.ErrNoCourses) {
			t.Errorf("err = %v, want ErrNoCourses", err)
		}
		if len(endpoint.calls) != 0 {
			t.Error("invalid request reached the endpoint")
		}
	})

	t.Run("endpoint failure", func(t *testing.T) {
		ctx, _, endpoint, _ := newContext(t)
		endpoint.err = errors.New("sheet unavailable")
		if err := (&BookCmd{File: valid}).Run(ctx); err == nil || !strings.Contains(err.Error(), "sheet unavailable") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestTestEmailCmd(t *testing.T) {
	ctx, out, _, sender := newContext(t)
	if err := (&TestEmailCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	sent := sender.Sent()
	if len(sent) != 1 || sent[0].To[0] != "ecole@example.com" || sent[0].Subject != booking.TestSubject {
		t.Errorf("sent = %+v", sent)
	}
	if !strings.Contains(out.String(), "ecole@example.com") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&TestEmailCmd{To: "prof@example.com"}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := sender.Sent(); got[len(got)-1].To[0] != "prof@example.com" {
		t.Errorf("recipient = %v", got[len(got)-1].To)
	}
}
