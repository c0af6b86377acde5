package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RetentionScheduler prunes old passages once a day
type RetentionScheduler struct {
	ledger      *Ledger
	days        int
	cleanupTime time.Time // Time of day to prune (only hour and minute are used)
	logger      zerolog.Logger
	stopChan    chan struct{}
}

// NewRetentionScheduler creates a scheduler that keeps days local days of
// history and prunes at cleanupTime (HH:MM) in the ledger's location.
func NewRetentionScheduler(ledger *Ledger, days int, cleanupTime string, logger zerolog.Logger) (*RetentionScheduler, error) {
	if days <= 0 {
		return nil, fmt.Errorf("retention days must be positive, got %d", days)
	}

	// Parse cleanup time (HH:MM format)
	parsedTime, err := time.Parse("15:04", cleanupTime)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup time %q: %w", cleanupTime, err)
	}

	return &RetentionScheduler{
		ledger:      ledger,
		days:        days,
		cleanupTime: parsedTime,
		logger:      logger.With().Str("component", "retention-scheduler").Logger(),
		stopChan:    make(chan struct{}),
	}, nil
}

// Start begins the retention scheduler
func (rs *RetentionScheduler) Start() {
	go rs.run()
	rs.logger.Info().
		Str("cleanup_time", rs.cleanupTime.Format("15:04")).
		Int("retention_days", rs.days).
		Msg("Retention scheduler started")
}

// Stop stops the retention scheduler
func (rs *RetentionScheduler) Stop() {
	close(rs.stopChan)
	rs.logger.Info().Msg("Retention scheduler stopped")
}

// run is the main scheduler loop
func (rs *RetentionScheduler) run() {
	for {
		nextCleanup := rs.NextCleanup(rs.ledger.clock.Now())
		waitDuration := time.Until(nextCleanup)

		rs.logger.Info().
			Time("next_cleanup", nextCleanup).
			Dur("wait_duration", waitDuration).
			Msg("Scheduled next retention cleanup")

		// Wait until cleanup time or stop signal
		select {
		case <-time.After(waitDuration):
			rs.RunOnce(context.Background())
		case <-rs.stopChan:
			return
		}
	}
}

// NextCleanup returns the first cleanup time strictly after now.
func (rs *RetentionScheduler) NextCleanup(now time.Time) time.Time {
	now = now.In(rs.ledger.location)

	todayCleanup := time.Date(
		now.Year(), now.Month(), now.Day(),
		rs.cleanupTime.Hour(), rs.cleanupTime.Minute(), 0, 0,
		now.Location(),
	)

	// If we've already passed today's cleanup time, schedule for tomorrow
	if !now.Before(todayCleanup) {
		return todayCleanup.AddDate(0, 0, 1)
	}

	return todayCleanup
}

// RunOnce prunes everything older than the retention horizon
func (rs *RetentionScheduler) RunOnce(ctx context.Context) {
	rs.logger.Info().Msg("Performing retention cleanup")

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := rs.ledger.Prune(ctx, rs.days); err != nil {
		rs.logger.Error().Err(err).Msg("Failed to prune old passages")
	}
}
