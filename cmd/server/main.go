package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"InfiniteDbAccounts/internal/auth"
	"InfiniteDbAccounts/internal/config"
	"InfiniteDbAccounts/internal/httpapi"
	"InfiniteDbAccounts/internal/service"
	"InfiniteDbAccounts/internal/store/memory"
	"InfiniteDbAccounts/internal/store/postgres"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := &service.AccountService{
		Generator:     auth.NewGenerator(nil),
		Policy:        passwordPolicy(cfg.Password),
		ResetTokenTTL: cfg.ResetTokenTTL,
		Logger:        logger,
	}

	var dbPing func(context.Context) error
	if cfg.DBDSN != "" {
		if cfg.DBMigrate {
			if err := postgres.Migrate(cfg.DBDSN, "up"); err != nil {
				return err
			}
			logger.Info("migrations applied")
		}

		pgPool, err := postgres.Open(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer pgPool.Close()

		stores := postgres.NewStores(pgPool)
		svc.Accounts = stores.Accounts
		svc.Codes = stores.Codes
		dbPing = pgPool.Ping
	} else {
		logger.Warn("APP_DB_DSN not set, accounts are kept in memory")
		store := memory.New()
		svc.Accounts = store
		svc.Codes = store
	}

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer func() {
		if err := closeNotifier(); err != nil {
			logger.Warn("close notifier", "err", err)
		}
	}()
	svc.Notifier = notifier

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.NewRouter(httpapi.RouterOpts{
			Logger:      logger,
			IsProd:      cfg.IsProd(),
			DBPing:      dbPing,
			Accounts:    svc,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr, "notifiers", cfg.Notifiers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func passwordPolicy(p config.PasswordConfig) auth.PasswordPolicy {
	return auth.PasswordPolicy{
		MinLength:        p.MinLength,
		MaxLength:        p.MaxLength,
		RequireLowercase: p.RequireLowercase,
		RequireUppercase: p.RequireUppercase,
		RequireDigit:     p.RequireDigit,
		RequireSpecial:   p.RequireSpecial,
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
