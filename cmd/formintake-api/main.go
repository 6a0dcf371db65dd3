package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/formintake/internal/cache"
	"example.com/formintake/internal/config"
	"example.com/formintake/internal/ingest"
	"example.com/formintake/internal/logger"
	spg "example.com/formintake/internal/storage/postgres"
	transport "example.com/formintake/internal/transport/http"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	slog.SetDefault(lg)

	if err := run(cfg, lg); err != nil {
		lg.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool := spg.NewLazy(func(ctx context.Context) (*spg.DB, error) {
		return spg.Connect(ctx, spg.Config{
			DSN:       cfg.PostgresDSN(),
			MaxConns:  cfg.DBMaxConns,
			OpTimeout: cfg.DBOpTimeout,
		})
	})
	db, err := pool.Get(ctx)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	lg.Info("db: pool created", "max_conns", cfg.DBMaxConns)

	var rc cache.RecordCache = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		rc = cache.NewRedis(client, cfg.CacheTTL, lg)
		lg.Info("cache: redis enabled", "ttl", cfg.CacheTTL)
	}

	deps := &transport.ServerDeps{
		Cfg:     cfg,
		Ingest:  ingest.NewPipeline(db, rc, lg),
		Records: db,
		Cache:   rc,
		Log:     lg,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           deps.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Data routes and /readyz answer 503 until the table exists.
	if err := db.EnsureSchema(ctx, lg); err != nil {
		shutdown(srv, cfg.ShutdownTimeout, lg)
		return fmt.Errorf("schema: %w", err)
	}
	deps.Ready.Store(true)
	lg.Info("db: schema ready")

	select {
	case <-ctx.Done():
		lg.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdown(srv, cfg.ShutdownTimeout, lg)
	return nil
}

func shutdown(srv *http.Server, timeout time.Duration, lg *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("http shutdown", logger.Error(err))
	}
}
