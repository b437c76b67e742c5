// Package jobs runs the periodic maintenance work of the studio: storing
// EXPIRED on ended subscriptions and refreshing the email queue gauge.
package jobs

import (
	"context"
	"fmt"
	"time"

	"studiodesk/internal/logger"

	"github.com/robfig/cron/v3"
)

const (
	DefaultExpirySchedule     = "0 */15 * * * *"
	DefaultQueueGaugeSchedule = "*/30 * * * * *"

	jobTimeout = time.Minute
)

type Expirer interface {
	ExpireEnded(ctx context.Context) (int64, error)
}

type QueueGauge interface {
	QueueLength(ctx context.Context) int64
}

type Config struct {
	// Cron specs with a leading seconds field.
	ExpirySchedule     string
	QueueGaugeSchedule string
	Location           *time.Location
}

type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	queue   QueueGauge
}

// NewScheduler registers the jobs. A nil queue skips the gauge refresh.
func NewScheduler(cfg Config, expirer Expirer, queue QueueGauge) (*Scheduler, error) {
	if cfg.ExpirySchedule == "" {
		cfg.ExpirySchedule = DefaultExpirySchedule
	}
	if cfg.QueueGaugeSchedule == "" {
		cfg.QueueGaugeSchedule = DefaultQueueGaugeSchedule
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		expirer: expirer,
		queue:   queue,
	}

	if _, err := s.cron.AddFunc(cfg.ExpirySchedule, s.ExpireSubscriptions); err != nil {
		return nil, fmt.Errorf("register subscription expiry job: %w", err)
	}
	if queue != nil {
		if _, err := s.cron.AddFunc(cfg.QueueGaugeSchedule, s.RefreshQueueLength); err != nil {
			return nil, fmt.Errorf("register email queue gauge job: %w", err)
		}
	}

	logger.Info("cron jobs registered", "count", len(s.cron.Entries()))
	return s, nil
}

func (s *Scheduler) ExpireSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.expirer.ExpireEnded(ctx)
	if err != nil {
		logger.Error("subscription expiry job failed", "error", err)
		return
	}
	logger.Debug("subscription expiry job done", "expired", n, "duration", time.Since(start))
}

func (s *Scheduler) RefreshQueueLength() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.queue.QueueLength(ctx)
}

func (s *Scheduler) Start() {
	logger.Info("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("cron scheduler stopped")
	case <-ctx.Done():
		logger.Warn("cron scheduler stop timed out")
	}
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
