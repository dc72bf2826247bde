package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	relay     *Relay
	interval  time.Duration
	retention time.Duration
	log       *zap.Logger
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewScheduler(relay *Relay, interval, retention time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if retention <= 0 {
		retention = 72 * time.Hour
	}
	return &Scheduler{
		relay:     relay,
		interval:  interval,
		retention: retention,
		log:       log,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the relay and purge loops.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting outbox scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(2)
	go s.runRelay(ctx)
	go s.runPurge(ctx)
}

// Stop signals both loops and waits for them to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("stopping outbox scheduler")
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Scheduler) runRelay(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.relay.ProcessBatch(ctx); err != nil {
				s.log.Error("outbox batch failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("outbox relay stopped")
			return
		case <-ctx.Done():
			s.log.Info("outbox relay cancelled")
			return
		}
	}
}

// runPurge trims published rows every hour.
func (s *Scheduler) runPurge(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.relay.PurgePublished(ctx, s.retention)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnceNow drains one batch and purges immediately.
func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	if _, err := s.relay.ProcessBatch(ctx); err != nil {
		return err
	}
	_, err := s.relay.PurgePublished(ctx, s.retention)
	return err
}
