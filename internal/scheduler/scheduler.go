// Package scheduler runs the periodic backend liveness probe. Product data is
// never polled here; only the health endpoint is, so the dashboard can show
// whether the gateway is reachable before an operator clicks anything.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbaye/chainboard/internal/config"
	"github.com/mbaye/chainboard/internal/store"
	"github.com/mbaye/chainboard/pkg/clients/ledger"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	ledger ledger.API
	store  *store.Store
	cfg    config.ProbeConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ProbeConfig, api ledger.API, st *store.Store, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		ledger: api,
		store:  st,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the probe and begins the cron loop. One probe runs
// immediately so the dashboard does not show an unknown backend state until
// the first tick.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.probeBackend); err != nil {
		s.logger.Error("failed to schedule backend probe", zap.Error(err))
	}

	go s.probeBackend()
	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) probeBackend() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.ledger.Health(ctx); err != nil {
		s.logger.Warn("backend health probe failed", zap.Error(err))
		s.store.SetBackendUp(false)
		return
	}

	s.store.SetBackendUp(true)
}
