package events

import (
	"context"
	"sync"
	"time"

	"showtix/pkg/logger"
)

// Sweeper periodically reclaims lapsed seat locks. Correctness does not
// depend on it; conflicting requests reclaim expired locks lazily. The
// sweeper keeps availability counters and seat maps honest for events
// nobody is touching.
type Sweeper struct {
	repo     Repository
	interval time.Duration
	log      *logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(repo Repository, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to shut it down.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.Info("seat lock sweeper started", "interval", s.interval.String())
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	s.log.Info("seat lock sweeper stopped")
}

func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	released, err := s.repo.ReleaseExpiredLocks(sweepCtx, time.Now())
	if err != nil {
		s.log.WithError(err).Error("seat lock sweep failed")
		return
	}
	if released > 0 {
		s.log.Info("reclaimed expired seat locks", "count", released)
	}
}
