package utils

import (
	"context"
	"sync"
	"time"
)

// RateLimiter ホスト別に最小リクエスト間隔を強制する。
// Nominatimのような「1リクエスト/秒」系の利用規約を守るためのもの。
type RateLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	nextAt   map[string]time.Time
}

// NewRateLimiter 新しいレートリミッターを作成
func NewRateLimiter(rps int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	return &RateLimiter{
		interval: time.Second / time.Duration(rps),
		nextAt:   make(map[string]time.Time),
	}
}

// Wait host宛のリクエストが許可されるまでブロックする。
// コンテキストがキャンセルされた場合はそのエラーを返す。
func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	rl.mu.Lock()
	now := time.Now()
	next, ok := rl.nextAt[host]
	if !ok || next.Before(now) {
		next = now
	}
	rl.nextAt[host] = next.Add(rl.interval)
	rl.mu.Unlock()

	wait := next.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
