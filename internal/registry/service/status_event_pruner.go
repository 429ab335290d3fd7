package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

// StatusEventPruner periodically deletes status events older than the
// retention period.  Buildings and their current status are never touched.
//
// A retention of 0 disables pruning entirely.
type StatusEventPruner struct {
	store     store.StatusEventStore
	retention time.Duration
	interval  time.Duration
	clock     func() time.Time
	logger    *zap.Logger
	metrics   *metrics.Metrics

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

type PrunerConfig struct {
	// RetentionDays is how many days of status history to keep.
	// 0 keeps everything and the pruner does not start.
	RetentionDays int

	// IntervalHours is how often the pruner runs.  Defaults to 6.
	IntervalHours int
}

// NewStatusEventPruner creates a pruner but does not start it.
func NewStatusEventPruner(s store.StatusEventStore, cfg PrunerConfig, logger *zap.Logger, m *metrics.Metrics) *StatusEventPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.L()
	}

	return &StatusEventPruner{
		store:     s,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		clock:     time.Now,
		logger:    logger,
		metrics:   m,
		done:      make(chan struct{}),
	}
}

// Start runs an immediate prune, then repeats on the interval until ctx is
// cancelled or Stop is called.  Only the first call has any effect.
func (p *StatusEventPruner) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		if p.retention <= 0 {
			p.logger.Info("status event pruner disabled", zap.Int("retention_days", 0))
			close(p.done)
			return
		}

		ctx, p.cancel = context.WithCancel(ctx)
		go p.loop(ctx)

		p.logger.Info("status event pruner started",
			zap.Duration("retention", p.retention),
			zap.Duration("interval", p.interval),
		)
	})
}

// Stop signals the pruner to exit and waits for it.  Stop before Start is a
// no-op.
func (p *StatusEventPruner) Stop() {
	started := true
	p.startOnce.Do(func() {
		started = false
		close(p.done)
	})
	if !started {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

// Done is closed once the background loop has exited.
func (p *StatusEventPruner) Done() <-chan struct{} { return p.done }

func (p *StatusEventPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.PruneOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce deletes everything older than now minus the retention and
// returns the number of events removed.
func (p *StatusEventPruner) PruneOnce(ctx context.Context) int64 {
	if p.retention <= 0 {
		return 0
	}
	cutoff := p.clock().UTC().Add(-p.retention)
	deleted, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("status event prune failed", zap.Error(err))
		return 0
	}
	if deleted > 0 {
		p.metrics.AddStatusEventsPruned(deleted)
		p.logger.Info("status events pruned",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted
}
