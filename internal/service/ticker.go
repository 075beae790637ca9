package service

import (
	"context"
	"time"
)

// TickerService drives the roast clock while a session is live. The state
// machine itself ignores ticks outside roasting, so the loop runs
// unconditionally and stops via context cancellation at shutdown.
type TickerService struct {
	roasting Roasting
}

func NewTickerService(roasting Roasting) *TickerService {
	return &TickerService{roasting: roasting}
}

// Run ticks at the given interval until ctx is canceled.
func (s *TickerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.roasting.Tick(ctx)
		}
	}
}
