package queuesync

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval is the polling cadence when none is configured.
const DefaultRefreshInterval = 30 * time.Second

// PeriodicRefresh reloads the queue every interval until stop is called or
// ctx ends. Each tick starts its own reload without waiting for earlier ones,
// so reloads may overlap; Options.DiscardStale decides which result wins.
// stop blocks until in-flight reloads return.
func (c *Controller) PeriodicRefresh(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	var inflight sync.WaitGroup
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				inflight.Add(1)
				go func() {
					defer inflight.Done()
					_ = c.Reload(ctx)
				}()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-loopDone
			inflight.Wait()
		})
	}
}
