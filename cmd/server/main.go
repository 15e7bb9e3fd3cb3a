package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/baxromumarov/civic-reps/internal/api"
	"github.com/baxromumarov/civic-reps/internal/config"
	"github.com/baxromumarov/civic-reps/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dbStore, err := store.NewStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer dbStore.Close()

	// Make sure the tables exist so an empty database answers 404s
	if err := dbStore.RunMigrations(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	srv := api.NewServer(dbStore)

	slog.Info("starting server", "addr", cfg.Addr(), "driver", dbStore.Driver())
	if err := http.ListenAndServe(cfg.Addr(), srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
