package kds

import (
	"context"
	"time"

	"github.com/yeremiapane/tableorder/utils"
)

// DefaultPollInterval backs up push delivery on dashboards.
const DefaultPollInterval = 30 * time.Second

// Watch calls refetch once at start, then whenever an event arrives for
// restaurantID or interval elapses. Triggers that pile up while refetch
// runs collapse into one call. Watch returns when ctx is done.
func Watch(ctx context.Context, hub *Hub, restaurantID uint, interval time.Duration, refetch func(context.Context) error) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	trigger := make(chan struct{}, 1)
	poke := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	sub := hub.Subscribe(restaurantID, func(Event) { poke() })
	defer sub.Unsubscribe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poke()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poke()
		case <-trigger:
			if err := refetch(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if utils.IsRetryable(err) {
					utils.InfoLogger.Warnf("Refetch for restaurant %d failed, retrying on next trigger: %v", restaurantID, err)
					continue
				}
				utils.ErrorLogger.Printf("Refetch for restaurant %d failed: %v", restaurantID, err)
			}
		}
	}
}
