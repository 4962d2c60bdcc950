package middleware

import "time"

func (rl *RateLimiter) Sweep(now time.Time) { rl.sweep(now) }
