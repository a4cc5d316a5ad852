// Package app owns the long-lived resources shared by the entrypoints: the
// history database and its background worker.
package app

import (
	"fmt"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/history"

	"go.uber.org/zap"
)

// App is opened once at startup and closed once at shutdown.
type App struct {
	Config  config.Config
	Store   *history.SQLiteStore
	History *history.Log
}

// Open opens the history database and starts its worker.
func Open(cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := history.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	logger.Info("history opened", zap.String("path", store.Path()))

	return &App{
		Config:  cfg,
		Store:   store,
		History: history.NewLog(store, logger.Named("history")),
	}, nil
}

// Close flushes queued history writes, then closes the database.
func (a *App) Close() error {
	a.History.Close()
	return a.Store.Close()
}
