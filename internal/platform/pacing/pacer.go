package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a fixed minimum delay between successive upstream calls.
// The feed has no documented rate limit; spacing requests out is the
// agreed-upon way to stay under its implicit one.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewPacer(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous Wait returned, or the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.now()
	var wait time.Duration
	if !p.last.IsZero() {
		if elapsed := now.Sub(p.last); elapsed < p.interval {
			wait = p.interval - elapsed
		}
	}
	p.last = now.Add(wait)
	p.mu.Unlock()

	if wait <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
