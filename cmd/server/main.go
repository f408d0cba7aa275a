package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/Akshatcodegenics/Issue-tracker/internal/config"
	"github.com/Akshatcodegenics/Issue-tracker/internal/events"
	"github.com/Akshatcodegenics/Issue-tracker/internal/handler"
	"github.com/Akshatcodegenics/Issue-tracker/internal/repository/postgres"
	"github.com/Akshatcodegenics/Issue-tracker/internal/service"
	"github.com/Akshatcodegenics/Issue-tracker/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Open lazily: the server must come up even when the store is down so
	// that reads can degrade and /health can report dbConnected:false.
	db, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		slog.Warn("database unreachable at startup, continuing without it", "error", err)
	} else {
		slog.Info("database connected")
	}
	cancelPing()

	issueRepo := postgres.NewIssueRepository(db)
	broadcaster := events.NewBroadcaster()
	issueSvc := service.NewIssueService(issueRepo, broadcaster)

	issueHandler := handler.NewIssueHandler(issueSvc)
	eventsHandler := handler.NewEventsHandler(broadcaster, cfg.KeepAliveInterval)

	router := handler.NewRouter(cfg, db, issueHandler, eventsHandler, web.Handler())

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: /events streams indefinitely.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
