package monitor

import (
	"time"

	"golang.org/x/time/rate"
)

// NewRateLimiter permite uma chamada a cada interval, sem rajadas
func NewRateLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
