package app

import (
	"context"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

type sessionStore interface {
	Sweep() int
}

type SweepTarget struct {
	Kind  string
	Store sessionStore
}

// SessionSweeper drops expired sessions on a fixed interval.
type SessionSweeper struct {
	interval time.Duration
	targets  []SweepTarget
	logger   *logging.Logger
}

func NewSessionSweeper(interval time.Duration, logger *logging.Logger, targets ...SweepTarget) *SessionSweeper {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{interval: interval, targets: targets, logger: logger}
}

// Run blocks until ctx is done.
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

func (s *SessionSweeper) SweepOnce(ctx context.Context) int {
	total := 0
	for _, target := range s.targets {
		removed := target.Store.Sweep()
		total += removed
		if removed == 0 {
			s.logger.DebugContext(ctx, "sessions swept", "kind", target.Kind, "removed", removed)
			continue
		}
		s.logger.InfoContext(ctx, "sessions swept", "kind", target.Kind, "removed", removed)
	}
	return total
}
