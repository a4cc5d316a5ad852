package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/app"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/history"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"

	"go.uber.org/zap"
)

func main() {

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		panic(err)
	}
	defer telemetryShutdown(ctx)

	// History
	a, err := app.Open(cfg, observability.Logger)
	if err != nil {
		observability.Logger.Fatal("opening history", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			observability.Logger.Error("closing history", zap.Error(err))
		}
	}()

	// Sessions, evicted after cfg.Server.SessionTTL of inactivity
	sessions := calculator.NewRegistry(a.History)
	expireCtx, stopExpiry := context.WithCancel(ctx)
	defer stopExpiry()
	go sessions.ExpireIdle(expireCtx, cfg.Server.SessionTTL, sessionSweepInterval(cfg.Server.SessionTTL))

	// Router
	router := server.NewRouter(server.Dependencies{
		Calculator: calculator.NewHandler(sessions, a.History),
		History:    history.NewHandler(a.History),
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Server.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.Server)
}

// sessionSweepInterval checks for idle sessions a few times per ttl.
func sessionSweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}

func waitForShutdown(srv *http.Server, cfg config.ServerConfig) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
	observability.Logger.Info("server stopped")
}
