package audio

import (
	"context"
	"time"

	"upsc-daily-pipeline/config"

	"golang.org/x/time/rate"
)

// Pacer blocks between consecutive synthesis calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NoPacing never waits.
type NoPacing struct{}

func (NoPacing) Wait(ctx context.Context) error { return ctx.Err() }

// FixedDelay sleeps for a constant duration.
type FixedDelay struct {
	Delay time.Duration
}

func (p FixedDelay) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TokenBucket allows burst calls, refilling one token every interval.
type TokenBucket struct {
	limiter *rate.Limiter
}

func NewTokenBucket(every time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{limiter: rate.NewLimiter(rate.Every(every), burst)}
}

func (p *TokenBucket) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NewPacer builds the configured policy; unknown names mean fixed delay.
func NewPacer(cfg config.AudioConfig) Pacer {
	switch cfg.Pacing {
	case "none":
		return NoPacing{}
	case "token_bucket":
		return NewTokenBucket(cfg.Delay, cfg.Burst)
	default:
		return FixedDelay{Delay: cfg.Delay}
	}
}
