// Package ratelimiter は、ログイン試行などの操作の頻度をクライアント単位で制限します。
package ratelimiter

import (
	"sync"
	"time"
)

// Limiter は、キーごとの操作回数を判定するインターフェースです。
type Limiter interface {
	// Allow は key の操作を許可するかを返します。拒否時は次に許可されるまでの時間も返します。
	Allow(key string) (bool, time.Duration)
}

type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter は固定ウィンドウ方式でキーごとの操作回数を制限します。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time
	windows  map[string]*window
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allow はレートリミットの上限に達しているかを確認します。
// 上限を超えた場合は待機せず、残り時間とともに false を返します。
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.sweep(now)
	}

	if w.count >= rl.limit {
		return false, rl.interval - now.Sub(w.lastReset)
	}
	w.count++
	return true, 0
}

// sweep は期限切れのウィンドウを破棄します。
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
