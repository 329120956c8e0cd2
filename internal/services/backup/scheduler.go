package backup

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs Take on a fixed cadence. Start is safe to call again
// with a new interval: the previous schedule is stopped first, so a
// reconfiguration never leaves two schedules running. If a run is still
// in progress when the next tick fires, that tick is skipped so that
// retention pruning never races against itself.
type Scheduler struct {
	service *Service
	logger  *slog.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	running sync.Mutex // TryLock guard against overlapping runs
}

// NewScheduler creates a scheduler over the backup service
func NewScheduler(service *Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		logger:  logger,
	}
}

// Start arms the recurring schedule, replacing any previous one
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop = stop
	s.done = done

	go s.run(interval, stop, done)
	s.logger.Info("snapshot schedule armed", slog.Duration("interval", interval))
}

// Stop disarms the schedule and waits for any in-flight run to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
}

func (s *Scheduler) run(interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			s.logger.Info("snapshot schedule stopped")
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// runOnce takes one scheduled snapshot. A failure is logged and never
// breaks the cadence; an overlap with a still-running take is skipped.
func (s *Scheduler) runOnce() {
	if !s.running.TryLock() {
		s.logger.Warn("previous snapshot still running, skipping this tick")
		return
	}
	defer s.running.Unlock()

	if _, err := s.service.Take(context.Background(), ""); err != nil {
		s.logger.Error("scheduled snapshot failed", slog.String("error", err.Error()))
	}
}
