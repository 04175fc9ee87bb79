package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Janitor periodically prunes slots older than the session TTL.
type Janitor struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewJanitor creates a janitor that sweeps every interval.
func NewJanitor(store Store, ttl, interval time.Duration, logger zerolog.Logger) *Janitor {
	return &Janitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		logger:   logger.With().Str("component", "tab-janitor").Logger(),
	}
}

// Run sweeps until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep prunes once and reports how many slots were removed.
func (j *Janitor) Sweep(ctx context.Context) int {
	removed, err := j.store.Prune(ctx, j.now().Add(-j.ttl))
	if err != nil {
		j.logger.Warn().Err(err).Msg("failed to prune tab cache")
		return 0
	}
	if removed > 0 {
		j.logger.Debug().Int("removed", removed).Msg("pruned expired tab slots")
	}
	return removed
}
