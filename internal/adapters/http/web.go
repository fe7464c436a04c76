package web

import (
	"crypto/rand"
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"planning/internal/adapters/http/middleware"
	"planning/internal/adapters/http/perf"
	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// App holds the collaborators the handlers call.
type App struct {
	Settings   projections.PlanningSettingsStore
	Source     projections.PlanningScheduleSource
	Endpoint   orchestrators.BookingEndpoint   // used by the visitor's submit button
	Recorder   orchestrators.RecordBookingDeps // used by POST /api/bookings
	HeaderRows int

	// BookingNonce, when set, must accompany every POST /api/bookings.
	BookingNonce string
}

// Options configures security and session behaviour.
type Options struct {
	CSRFKey            []byte // 32 bytes; random per start when nil
	CookieHashKey      []byte // signs the day filter cookie; random per start when nil
	Secure             bool
	TrustedOrigins     []string
	RateLimitPerSecond int
	VisitorTTL         time.Duration
	MaxVisitors        int
	SlowRequest        time.Duration
	ExposePerf         bool // serve GET /debug/perf
}

// Global app instance (set by NewMux)
var app *App

// Global visitor store instance
var visitors *middleware.VisitorStore

// dayCookies signs the day filter cookie.
var dayCookies *securecookie.SecureCookie

// secureCookies marks cookies Secure in production.
var secureCookies bool

// exposePerf enables GET /debug/perf.
var exposePerf bool

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// randomKey returns 32 random bytes; keys generated this way do not survive a restart.
func randomKey(name string) []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("generate " + name + ": " + err.Error())
	}
	slog.Warn("random_key_generated", "key", name, "hint", "set it in configuration for stable cookies")
	return key
}

// NewMux wires HTTP handlers for the app.
// PRE: a.Settings, a.Source and a.Endpoint are set
func NewMux(a *App, opts Options, collector *perf.Collector) http.Handler {
	app = a
	perfCollector = collector
	visitors = middleware.NewVisitorStore(opts.VisitorTTL, opts.MaxVisitors)
	secureCookies = opts.Secure
	exposePerf = opts.ExposePerf

	hashKey := opts.CookieHashKey
	if hashKey == nil {
		hashKey = randomKey("cookie_hash_key")
	}
	dayCookies = securecookie.New(hashKey, nil)
	dayCookies.SetSerializer(securecookie.JSONEncoder{})
	dayCookies.MaxAge(int((365 * 24 * time.Hour).Seconds()))

	csrfKey := opts.CSRFKey
	if csrfKey == nil {
		csrfKey = randomKey("csrf_key")
	}

	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	registerRoutes(mux)

	// Apply middleware: Timing -> RateLimit -> Visitors -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, opts.Secure, opts.TrustedOrigins, "/api/bookings"),
		middleware.Visitors(middleware.VisitorConfig{
			Store:    visitors,
			Secure:   opts.Secure,
			Paths:    []string{"/", "/api/cart"},
			Prefixes: []string{"/api/cart/", "/api/booking/"},
		}),
		middleware.RateLimit(limiter),
		middleware.Timing(middleware.TimingConfig{Collector: collector, Slow: opts.SlowRequest, Skip: []string{"/debug/"}}),
	)
}

// Visitors exposes the visitor store so the server can run its sweeper.
func Visitors() *middleware.VisitorStore {
	return visitors
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handlePlanning)

	mux.HandleFunc("GET /api/cart", handleGetCart)
	mux.HandleFunc("POST /api/cart/items", handleAddToCart)
	mux.HandleFunc("DELETE /api/cart/items/{index}", handleRemoveFromCart)
	mux.HandleFunc("POST /api/cart/clear", handleClearCart)

	mux.HandleFunc("GET /api/days", handleGetDays)
	mux.HandleFunc("POST /api/days/toggle", handleToggleDay)

	mux.HandleFunc("POST /api/booking/submit", handleSubmitBooking)
	mux.HandleFunc("POST /api/bookings", handleRecordBooking)

	mux.HandleFunc("GET /debug/perf", handlePerf)
	mux.HandleFunc("GET /healthz", handleHealth)
}
