// Package ratelimiter は外部API呼び出しの頻度制限を提供します。
package ratelimiter

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// ErrInvalidLimit は上限が0以下で待機できないことを示します。
var ErrInvalidLimit = errors.New("rate limit must be positive")

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
// interval あたり limit 回を均等な間隔に割り振ります（バーストは1）。
type RateLimiter struct {
	limit    int
	interval time.Duration
	lim      *rate.Limiter
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{limit: limit, interval: interval}
	if limit > 0 && interval > 0 {
		rl.lim = rate.NewLimiter(rate.Every(interval/time.Duration(limit)), 1)
	}
	return rl
}

// Waitは次の呼び出しが許可されるまで待機します。ctx が先に終われば ctx.Err() を返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.lim == nil {
		return ErrInvalidLimit
	}
	r := rl.lim.Reserve()
	if !r.OK() {
		return ErrInvalidLimit
	}
	d := r.Delay()
	if d <= 0 {
		return nil
	}
	log.Printf("[RATE LIMIT] %d calls per %v, sleeping for %v...", rl.limit, rl.interval, d.Round(time.Millisecond))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
