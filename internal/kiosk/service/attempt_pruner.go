package service

import (
	"context"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

// AttemptPruner periodically deletes denied-attempt rows older than the
// retention period.  A retention of 0 disables pruning entirely.
type AttemptPruner struct {
	store     store.AttemptStore
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

type PrunerConfig struct {
	// RetentionDays is how many days of attempts to keep.  0 keeps
	// everything and the pruner never starts.
	RetentionDays int

	// IntervalHours defaults to 6.
	IntervalHours int
}

// NewAttemptPruner creates a pruner but does not start it.
func NewAttemptPruner(s store.AttemptStore, cfg PrunerConfig, log *logger.Logger) *AttemptPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &AttemptPruner{
		store:     s,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    log,
		done:      make(chan struct{}),
	}
}

// Start prunes once immediately, then on every interval until ctx is
// cancelled or Stop is called.
func (p *AttemptPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("attempt pruner disabled", "retention_days", 0)
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)

	p.logger.Info("attempt pruner started",
		"retention_days", int(p.retention.Hours()/24),
		"interval_hours", int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it.  Safe to call more than
// once.
func (p *AttemptPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *AttemptPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *AttemptPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)
	deleted, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("attempt prune failed", "error", err)
		return
	}
	if deleted > 0 {
		p.logger.Info("attempt prune", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
}
