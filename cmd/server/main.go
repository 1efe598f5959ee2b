// Package main is the entry point for the bizi server.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/randytsao24/bizi/internal/api"
	"github.com/randytsao24/bizi/internal/bizi"
	"github.com/randytsao24/bizi/internal/config"
	"github.com/randytsao24/bizi/internal/logging"
	"github.com/randytsao24/bizi/internal/stations"
	"github.com/randytsao24/bizi/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open preference store: ", err)
	}
	defer db.Close()

	if cfg.ResetOnStart {
		if err := db.Reset(ctx); err != nil {
			slog.Warn("failed to reset preferences", "error", err)
		} else {
			slog.Info("preferences reset")
		}
	}

	prefs := store.NewPreferences(db)
	client := bizi.NewClient(cfg.BaseURL, cfg.HTTPTimeout)
	ctrl := stations.New(ctx, client, prefs)

	// Initial load runs in the background so the server is reachable immediately
	ctrl.StartRefresh(ctx)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(ctrl, client, prefs),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open; per-request timeouts live in the router
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("bizi server starting",
		"port", cfg.Port,
		"env", cfg.Env,
		"url", "http://localhost:"+cfg.Port,
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed to start: ", err)
	}
	slog.Info("server stopped")
}
