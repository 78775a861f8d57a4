package memory

import (
	"context"
	"time"
)

// runSweeper calls sweep on every tick until ctx is cancelled.
func runSweeper(ctx context.Context, interval time.Duration, sweep func()) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
