package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/budgetly/internal/budget/store"
	"github.com/MrJamesThe3rd/budgetly/internal/config"
	"github.com/MrJamesThe3rd/budgetly/internal/database"
	"github.com/MrJamesThe3rd/budgetly/internal/export"
	"github.com/MrJamesThe3rd/budgetly/internal/importer"
	"github.com/MrJamesThe3rd/budgetly/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/budgetly/internal/matching/store"
	budgetlyHttp "github.com/MrJamesThe3rd/budgetly/internal/http"
	authHandler "github.com/MrJamesThe3rd/budgetly/internal/http/auth"
	budgetHandler "github.com/MrJamesThe3rd/budgetly/internal/http/budget"
	exportHandler "github.com/MrJamesThe3rd/budgetly/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/budgetly/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/budgetly/internal/http/matching"
	"github.com/MrJamesThe3rd/budgetly/internal/revalidate"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
	userStore "github.com/MrJamesThe3rd/budgetly/internal/user/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(cfg.LogHandler()))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	cache := revalidate.NewCache(cfg.Cache.Size, cfg.Cache.TTL)

	var broadcaster revalidate.Broadcaster

	if cfg.AMQP.URL != "" {
		amqpB, err := revalidate.NewAMQPBroadcaster(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to AMQP: %w", err)
		}
		defer amqpB.Close()

		broadcaster = amqpB
	}

	reval := revalidate.New(cache, broadcaster)
	reval.StartCleanup(ctx, cfg.Cache.CleanupInterval)

	if amqpB, ok := broadcaster.(*revalidate.AMQPBroadcaster); ok {
		go reval.Listen(ctx, amqpB, cfg.AMQP.ReconnectDelay, cfg.AMQP.MaxReconnectDelay)
	}

	var (
		userService   = user.NewService(userStore.New(db))
		budgetService = budget.NewService(budgetStore.New(db), reval)
		matchService  = matching.NewService(matchingStore.New(db))
		tokens        = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.SessionTTL, cfg.App.Name)
	)

	var (
		authH   = authHandler.NewHandler(userService, auth.NewVerifier(userService), tokens, auth.NewAugmenter(userService))
		budgetH = budgetHandler.NewHandler(budgetService)
		exportH = exportHandler.NewHandler(export.NewService(budgetService))
		importH = importHandler.NewHandler(importer.NewService(budgetService, matchService))
		rulesH  = matchingHandler.NewHandler(matchService)
	)

	router := budgetlyHttp.New(budgetlyHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, authH, budgetH, exportH, importH, rulesH, reval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
