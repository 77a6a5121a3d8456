// Package maintenance runs periodic housekeeping on the history store:
// retention purges and value log garbage collection.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Store is the storage surface maintenance needs
type Store interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
	CollectGarbage() error
}

// Service schedules housekeeping with cron
type Service struct {
	store     Store
	logger    arbor.ILogger
	cron      *cron.Cron
	schedule  string
	retention time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
}

// NewService creates a maintenance service. retentionDays of 0 disables
// purging; garbage collection still runs on schedule.
func NewService(store Store, schedule string, retentionDays int, logger arbor.ILogger) *Service {
	return &Service{
		store:     store,
		logger:    logger,
		cron:      cron.New(),
		schedule:  schedule,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Start registers the housekeeping job and starts the scheduler. An empty
// schedule leaves the service idle.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("maintenance already running")
	}
	if s.schedule == "" {
		s.logger.Info().Msg("History maintenance disabled (no schedule)")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to add maintenance job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Dur("retention", s.retention).
		Msg("History maintenance scheduled")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("History maintenance stopped")
}

// RunOnce purges expired records, then collects garbage. Failures are logged.
func (s *Service) RunOnce(ctx context.Context) {
	start := time.Now()

	purged := 0
	if s.retention > 0 {
		cutoff := s.now().Add(-s.retention)
		n, err := s.store.PurgeBefore(ctx, cutoff)
		if err != nil {
			s.logger.Error().Err(err).Str("cutoff", cutoff.Format(time.RFC3339)).Msg("History retention purge failed")
		} else {
			purged = n
		}
	}

	if err := s.store.CollectGarbage(); err != nil {
		s.logger.Warn().Err(err).Msg("History garbage collection failed")
	}

	s.logger.Info().
		Int("purged", purged).
		Dur("duration", time.Since(start)).
		Msg("History maintenance complete")
}
