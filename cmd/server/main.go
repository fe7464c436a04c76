package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "planning/internal/adapters/http"
	"planning/internal/adapters/http/perf"
	"planning/internal/adapters/storage"
	"planning/internal/application/orchestrators"
	"planning/internal/bootstrap"
	"planning/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to planning.yaml (default ./planning.yaml when present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := bootstrap.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	stores := bootstrap.NewStores(db, collector, cfg.SlowQuery)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed default categories, form fields and ribbon on first start
	if err := orchestrators.ExecuteSeedSettings(ctx, orchestrators.SeedSettingsDeps{Settings: stores.Settings}); err != nil {
		log.Fatalf("failed to seed settings: %v", err)
	}

	source, err := bootstrap.ScheduleSource(ctx, cfg, collector)
	if err != nil {
		log.Fatalf("failed to configure schedule source: %v", err)
	}
	rows, err := bootstrap.RowAppender(ctx, cfg, collector)
	if err != nil {
		log.Fatalf("failed to configure booking sheet: %v", err)
	}
	recorder := bootstrap.RecordBookingDeps(cfg, stores, rows, bootstrap.Sender(cfg, collector))

	// Validate has already checked both keys
	csrfKey, _ := config.DecodeKey(cfg.CSRFKey)
	hashKey, _ := config.DecodeKey(cfg.CookieHashKey)

	mux := web.NewMux(&web.App{
		Settings:     stores.Settings,
		Source:       source,
		Endpoint:     bootstrap.Endpoint(cfg, recorder, collector),
		Recorder:     recorder,
		HeaderRows:   cfg.HeaderRows,
		BookingNonce: cfg.BookingNonce,
	}, web.Options{
		CSRFKey:            csrfKey,
		CookieHashKey:      hashKey,
		Secure:             cfg.IsProduction(),
		RateLimitPerSecond: cfg.RateLimitPerSec,
		VisitorTTL:         cfg.VisitorTTL,
		MaxVisitors:        cfg.MaxVisitors,
		SlowRequest:        cfg.SlowRequest,
		ExposePerf:         cfg.ExposePerf,
	}, collector)
	web.Visitors().StartSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server_shutdown_failed", "error", err)
		}
	}()

	slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
