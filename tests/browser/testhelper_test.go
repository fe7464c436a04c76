package browser_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	emailAdapter "planning/internal/adapters/email"
	web "planning/internal/adapters/http"
	"planning/internal/adapters/http/perf"
	"planning/internal/adapters/sheets"
	"planning/internal/application/orchestrators"
	"planning/internal/bootstrap"
	"planning/internal/domain/settings"
	"planning/internal/domain/teacher"
)

const (
	jazzCell   = "Modern Jazz\nenfant\nSarah\n17:00 à 18:00"
	balletCell = "Classique\nadulte\nComplet\n17:00 à 18:30"
	barreCell  = "Barre au sol\nadulte\n17:30 à 18:30"
	hipHopCell = "Hip Hop ado\n18:00 à 19:00"
)

// schedule is a sheet export: five header rows, then one row per start time.
var schedule = sheets.StaticSource{
	{"PLANNING"}, {""}, {"", "LUNDI"}, {"", "Studio 1", "Studio 2"}, {""},
	{"17:00", jazzCell, "", balletCell},
	{"17:30", "", "", "", "", "", "", barreCell},
	{"18:00", "", "", "", "", "", "", "", "", hipHopCell},
}

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  bootstrap.Stores
	Sender  *emailAdapter.NoopSender
}

// newTestApp wires the widget over a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := bootstrap.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	collector := perf.NewCollector(100)
	stores := bootstrap.NewStores(db, collector, 0)

	cfg := settings.Defaults()
	cfg.StartTime, cfg.EndTime = "17:00", "19:00"
	cfg.Teachers = []teacher.Teacher{{FirstName: "Sarah", LastName: "Martin"}}
	today := time.Now()
	cfg.BookingWindow = settings.BookingWindow{
		Start: today.AddDate(0, 0, -7).Format(settings.DateLayout),
		End:   today.AddDate(0, 0, 7).Format(settings.DateLayout),
	}
	cfg.NotificationEmail = "ecole@example.com"
	if err := stores.Settings.Save(ctx, cfg); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	sender := emailAdapter.NewNoopSender()
	recorder := orchestrators.RecordBookingDeps{
		Settings:   stores.Settings,
		Rows:       sheets.LogAppender{},
		Bookings:   stores.Bookings,
		Sender:     sender,
		From:       "noreply@example.com",
		SchoolName: "En Mouvance",
		GenerateID: func() string { return fmt.Sprintf("b-%d", time.Now().UnixNano()) },
		Now:        time.Now,
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mux := web.NewMux(&web.App{
		Settings:   stores.Settings,
		Source:     schedule,
		Endpoint:   orchestrators.LocalEndpoint{Deps: recorder},
		Recorder:   recorder,
		HeaderRows: 5,
	}, web.Options{
		CSRFKey:            bytes.Repeat([]byte("c"), 32),
		CookieHashKey:      bytes.Repeat([]byte("h"), 32),
		TrustedOrigins:     []string{fmt.Sprintf("127.0.0.1:%d", port)},
		RateLimitPerSecond: 1000,
	}, collector)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		Sender:  sender,
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})
	return app
}

// newPage creates a new browser page (tab) and opens the widget.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	if _, err := page.Goto(a.BaseURL + "/"); err != nil {
		t.Fatalf("failed to open planning: %v", err)
	}
	return page
}

// waitText polls until selector's trimmed text content satisfies match.
func waitText(t *testing.T, page playwright.Page, selector string, match func(string) bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		text, err := page.Locator(selector).First().TextContent()
		if err == nil && match(strings.TrimSpace(text)) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s text = %q (err %v)", selector, text, err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func equals(want string) func(string) bool {
	return func(got string) bool { return got == want }
}

func contains(want string) func(string) bool {
	return func(got string) bool { return strings.Contains(got, want) }
}

func click(t *testing.T, page playwright.Page, selector string) {
	t.Helper()
	if err := page.Locator(selector).Click(); err != nil {
		t.Fatalf("click %s: %v", selector, err)
	}
}

func count(t *testing.T, page playwright.Page, selector string) int {
	t.Helper()
	n, err := page.Locator(selector).Count()
	if err != nil {
		t.Fatalf("count %s: %v", selector, err)
	}
	return n
}

// waitCount polls until selector matches want elements.
func waitCount(t *testing.T, page playwright.Page, selector string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		n := count(t, page, selector)
		if n == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s matched %d, want %d", selector, n, want)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
