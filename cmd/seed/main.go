// Command seed copies the IPCA series from IPEA into the Postgres
// ipca_index table used by the postgres source.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/simaogato/ipca-api/internal/adapter/provider/ipea"
	"github.com/simaogato/ipca-api/internal/adapter/repository/postgres"
	"github.com/simaogato/ipca-api/internal/config"
	"github.com/simaogato/ipca-api/internal/usecase/loader"
	"github.com/simaogato/ipca-api/internal/usecase/seeder"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 1. Connect to the target database
	db, err := postgres.NewDB(ctx, cfg.Source.Postgres.DSN())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 2. Upstream is always IPEA, whatever source the server is configured with
	client := ipea.NewClient(cfg.Source.IPEA.BaseURL,
		ipea.WithSeriesCode(cfg.Source.IPEA.SeriesCode),
		ipea.WithTimeout(cfg.Source.IPEA.Timeout),
		ipea.WithLogger(logger),
	)
	start, err := cfg.Source.StartPeriod()
	if err != nil {
		logger.Error("Invalid series start", "error", err)
		os.Exit(1)
	}
	seriesLoader := loader.NewSeriesLoader(client, loader.Options{
		Attempts: cfg.Source.LoadAttempts,
		Delay:    cfg.Source.LoadDelay,
		MaxDelay: cfg.Source.LoadMaxDelay,
		Start:    start,
		Logger:   logger,
	})

	// 3. Seed
	result, err := seeder.NewSeriesSeeder(seriesLoader, postgres.NewIndexWriter(db), logger).Seed(ctx)
	if err != nil {
		logger.Error("Failed to seed IPCA series", "error", err)
		os.Exit(1)
	}

	logger.Info("Seed complete", "points", result.Points, "written", result.Written)
}
