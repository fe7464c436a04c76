package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"planning/internal/adapters/http/perf"
	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
	"planning/internal/bootstrap"
	"planning/internal/cli"
	"planning/internal/config"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (default ./planning.yaml when present)." type:"path"`

	Slots     cli.SlotsCmd     `cmd:"" help:"List the time slots of the grid."`
	Parse     cli.ParseCmd     `cmd:"" help:"Show how a schedule cell is read."`
	Grid      cli.GridCmd      `cmd:"" help:"Render the weekly grid in the terminal."`
	Book      cli.BookCmd      `cmd:"" help:"Submit a trial booking from a JSON file."`
	TestEmail cli.TestEmailCmd `cmd:"" name:"test-email" help:"Send the test notification email."`
	Settings  struct {
		Export cli.SettingsExportCmd `cmd:"" help:"Print the stored settings as JSON."`
		Import cli.SettingsImportCmd `cmd:"" help:"Replace the stored settings with a JSON file."`
	} `cmd:"" help:"Manage widget settings."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("planning"),
		kong.Description("Operator tools for the dance schedule widget"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fail(err)
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(cfg.DBPath)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	stores := bootstrap.NewStores(db, collector, cfg.SlowQuery)
	if err := orchestrators.ExecuteSeedSettings(ctx, orchestrators.SeedSettingsDeps{Settings: stores.Settings}); err != nil {
		fail(err)
	}
	sender := bootstrap.Sender(cfg, collector)

	appCtx := &cli.Context{
		Ctx:        ctx,
		Out:        os.Stdout,
		Settings:   stores.Settings,
		HeaderRows: cfg.HeaderRows,
		Source: func() (projections.PlanningScheduleSource, error) {
			return bootstrap.ScheduleSource(ctx, cfg, collector)
		},
		Endpoint: func() (orchestrators.BookingEndpoint, error) {
			rows, err := bootstrap.RowAppender(ctx, cfg, collector)
			if err != nil {
				return nil, err
			}
			return bootstrap.Endpoint(cfg, bootstrap.RecordBookingDeps(cfg, stores, rows, sender), collector), nil
		},
		Sender: sender,
		From:   cfg.EmailFrom,
	}

	if err := kctx.Run(appCtx); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
