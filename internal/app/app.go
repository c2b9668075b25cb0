package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/reelzone/backend/internal/auth"
	"github.com/reelzone/backend/internal/config"
	"github.com/reelzone/backend/internal/handlers"
	"github.com/reelzone/backend/internal/httpserver"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/middleware"
)

// Run bootstraps the ReelZone backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, seed, or hash-password")
	}
	if args[0] == "hash-password" {
		return runHashPassword(args[1:], os.Stdin, os.Stdout, bcrypt.DefaultCost)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	switch args[0] {
	case "serve":
		return serve(ctx, cfg, logger)
	case "migrate":
		return runMigrations(ctx, cfg, args[1:])
	case "seed":
		return runSeed(ctx, cfg, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     logging.ParseLevel(cfg.LogLevel),
	})
	return slog.New(handler).With("profile", cfg.Profile)
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("close backends", "error", err)
		}
	}()

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, svc.Dependencies())

	// Metrics reads the matched pattern, so it has to sit directly on the mux.
	handler := middleware.RequestLogger(logger)(middleware.Metrics(mux))

	srv := httpserver.New(cfg.AppPort, handler, httpserver.WithWriteTimeout(cfg.HTTPWriteTimeout))

	logger.Info("starting http server",
		"port", cfg.AppPort,
		"durable_backend", cfg.DurableBackend,
		"session_backend", cfg.SessionBackend,
		"data_dir", filepath.Join(cfg.DataDir, cfg.Profile),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		auth.Countdown(gctx, cfg.CountdownInterval, svc.admin, func(remaining time.Duration) {
			if remaining > 0 {
				logger.Debug("admin session active", "remaining", remaining.Round(time.Second).String())
			}
		})
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", "reason", context.Cause(gctx))
		return httpserver.Drain(srv, cfg.ShutdownTimeout)
	})
	return g.Wait()
}
