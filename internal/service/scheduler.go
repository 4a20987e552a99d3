package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Scheduler polls the engine at a fixed short interval and raises the
// timeout transition when the countdown has run out. A single in-flight
// guard makes an overlapping tick a no-op instead of queueing it, so a slow
// store cannot build up a backlog of timeout handling.
type Scheduler struct {
	engine *Engine
	clock  clockwork.Clock
	tick   time.Duration
	log    *zap.Logger

	inFlight atomic.Bool
}

func NewScheduler(engine *Engine, clock clockwork.Clock, tick time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if tick == 0 {
		tick = 250 * time.Millisecond
	}
	return &Scheduler{engine: engine, clock: clock, tick: tick, log: log}
}

// Run polls until the context is cancelled. Blocks; callers start it on its
// own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	s.log.Info("timeout scheduler started", zap.Duration("tick", s.tick))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("timeout scheduler stopped")
			return
		case <-ticker.Chan():
			s.poll(ctx)
		}
	}
}

func (s *Scheduler) poll(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer s.inFlight.Store(false)

	if !s.engine.TimeoutDue() {
		return
	}
	s.engine.HandleTimeout(ctx)
}
