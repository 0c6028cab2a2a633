package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/ipca-api/internal/adapter/grpc"
	"github.com/simaogato/ipca-api/internal/adapter/provider/ipea"
	"github.com/simaogato/ipca-api/internal/adapter/repository/memory"
	"github.com/simaogato/ipca-api/internal/adapter/repository/postgres"
	"github.com/simaogato/ipca-api/internal/adapter/rest"
	"github.com/simaogato/ipca-api/internal/config"
	"github.com/simaogato/ipca-api/internal/domain"
	"github.com/simaogato/ipca-api/internal/usecase/correction"
	"github.com/simaogato/ipca-api/internal/usecase/loader"
	"github.com/simaogato/ipca-api/internal/usecase/lookup"
	"github.com/simaogato/ipca-api/internal/usecase/status"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 2. Select the series provider
	provider, closeProvider, err := newProvider(ctx, cfg.Source, logger)
	if err != nil {
		fatal(logger, "Failed to initialize IPCA source", err)
	}
	defer closeProvider()

	// 3. Load the series once; the process does not start without it
	start, err := cfg.Source.StartPeriod()
	if err != nil {
		fatal(logger, "Invalid series start", err)
	}
	seriesLoader := loader.NewSeriesLoader(provider, loader.Options{
		Attempts: cfg.Source.LoadAttempts,
		Delay:    cfg.Source.LoadDelay,
		MaxDelay: cfg.Source.LoadMaxDelay,
		Start:    start,
		Logger:   logger,
	})
	series, err := seriesLoader.Load(ctx)
	if err != nil {
		fatal(logger, "Failed to load IPCA series", err)
	}
	loadedAt := time.Now()
	closeProvider()

	// 4. Initialize repository and services
	indexRepo := memory.NewIndexRepository(series)
	lookupService := lookup.NewLookupService(indexRepo)
	correctionService := correction.NewCorrectionService(lookupService)
	statusService := status.NewStatusService(indexRepo, provider.Name(), loadedAt)

	// 5. Start gRPC server
	var grpcServer *grpclib.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpcadapter.NewGRPCServer(
			grpcadapter.NewServer(lookupService, correctionService, statusService),
			grpcadapter.Options{APIToken: cfg.GRPC.APIToken, Logger: logger},
		)

		lis, err := net.Listen("tcp", cfg.GRPC.Addr())
		if err != nil {
			fatal(logger, "Failed to listen for gRPC", err)
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPC.Addr(), "auth", cfg.GRPC.APIToken != "")
			if err := grpcServer.Serve(lis); err != nil {
				fatal(logger, "Failed to serve gRPC server", err)
			}
		}()
	}

	// 6. Start HTTP server
	restServer := rest.NewServer(lookupService, correctionService, statusService, rest.Options{
		RootPath:          cfg.Server.RootPath,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
		Compression:       cfg.Server.Compression,
		CORSOrigins:       cfg.Server.CORSOrigins,
		Logger:            logger,
	})
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      restServer.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr, "root_path", cfg.Server.RootPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "Failed to serve HTTP server", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	logger.Info("Servers stopped")
}

// newProvider builds the configured series provider and a func releasing its resources
func newProvider(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (domain.SeriesProvider, func(), error) {
	switch cfg.Kind {
	case config.SourcePostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, err
		}
		var closed bool
		closeDB := func() {
			if !closed {
				closed = true
				_ = db.Close()
			}
		}
		return postgres.NewIndexProvider(db), closeDB, nil
	default:
		client := ipea.NewClient(cfg.IPEA.BaseURL,
			ipea.WithSeriesCode(cfg.IPEA.SeriesCode),
			ipea.WithTimeout(cfg.IPEA.Timeout),
			ipea.WithLogger(logger),
		)
		return client, func() {}, nil
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
