package session

import (
	"context"
	"sync"
	"time"

	"activitiesui/pkg/logger"
)

// Purger periodically removes expired rows from the postgres session table.
// Redis expires keys itself so it needs no equivalent.
type Purger struct {
	store    *GormStore
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewPurger(store *GormStore, interval time.Duration) *Purger {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Purger{
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the purge loop until ctx is cancelled or Stop is called
func (p *Purger) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.done:
				return
			case <-ticker.C:
				removed, err := p.store.PurgeExpired(ctx)
				if err != nil {
					logger.GetDefault().Error("Session purge failed", "error", err)
					continue
				}
				if removed > 0 {
					logger.GetDefault().Info("Expired sessions purged", "count", removed)
				}
			}
		}
	}()
}

// Stop ends the purge loop. Calling it again is a no-op.
func (p *Purger) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
}
