package wave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop drives an Orchestrator from a wall-clock ticker, for hosts that do
// not have their own game loop. Hosts with a loop call Orchestrator.Tick
// directly and never construct a Loop.
type Loop struct {
	orchestrator *Orchestrator
	interval     time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewLoop creates a loop driver ticking at interval.
func NewLoop(orchestrator *Orchestrator, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Loop{
		orchestrator: orchestrator,
		interval:     interval,
		stopCh:       make(chan struct{}),
	}
}

// Start runs the tick loop (blocks until the context is canceled or Stop
// is called).
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("orchestrator loop started", "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("orchestrator loop stopping")
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("orchestrator loop stopped")
			return nil

		case now := <-ticker.C:
			l.orchestrator.Tick(now)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
}
