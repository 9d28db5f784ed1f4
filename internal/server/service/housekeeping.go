package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/edumentor/learnconnect/internal/server/store"
)

// HousekeepingService periodically sweeps the database: expired refresh
// tokens are deleted and elapsed sessions are marked completed.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. An interval of 0 or less
// defaults to 15 minutes.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep runs each task independently; one failing does not stop the others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	}

	if err := s.Store.Bookings().CompleteElapsedBookings(ctx); err != nil {
		s.Logger.Error("failed to complete elapsed bookings", "error", err)
	}

	s.Logger.Debug("housekeeping sweep completed")
}
