package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mbaye/chainboard/internal/config"
	"github.com/mbaye/chainboard/internal/scheduler"
	"github.com/mbaye/chainboard/internal/server/handlers"
	"github.com/mbaye/chainboard/internal/server/router"
	commandsvc "github.com/mbaye/chainboard/internal/service/commands"
	"github.com/mbaye/chainboard/internal/store"
	"github.com/mbaye/chainboard/pkg/clients/ledger"
	"github.com/mbaye/chainboard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ledgerClient := ledger.NewClient(cfg.Ledger)
	recordStore := store.New()

	dispatcher := commandsvc.NewService(ledgerClient, recordStore, baseLogger.Named("svc.commands"))
	dashboardHandler := handlers.NewDashboardHandler(dispatcher, recordStore, ledgerClient, baseLogger.Named("handlers.dashboard"))
	engine := router.New(dashboardHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Probe, ledgerClient, recordStore, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("ledger_api", cfg.Ledger.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
