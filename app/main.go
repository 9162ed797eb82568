package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/app/api"
	"newsdesk/app/backend"
	"newsdesk/app/cfg"
	"newsdesk/app/database"
	"newsdesk/app/source"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Newsdesk console server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	fetchLogRepo := database.NewFetchLogRepository(db)

	sourceCache := source.NewCache(appCfg.SourcesDir)
	if err := sourceCache.LoadOverrides(); err != nil {
		slog.Error("Failed to load source overrides", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}

	timeout := time.Duration(appCfg.BackendTimeout) * time.Second
	backendClient := backend.NewClient(appCfg.BackendURL, appCfg.UserAgent, timeout)

	// Warm the source cache; the console still works without it, labels
	// just fall back to hostname matching.
	warmupCtx, cancelWarmup := context.WithTimeout(context.Background(), timeout)
	if sources, err := backendClient.ListSources(warmupCtx); err != nil {
		slog.Warn("Initial source listing failed", "error", err)
	} else {
		sourceCache.Set(sources)
		slog.Info("Sources loaded", "count", len(sources))
	}
	cancelWarmup()

	handler := api.NewHandler(backendClient, sourceCache, fetchLogRepo,
		&http.Client{Timeout: timeout}, appCfg.UserAgent)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
