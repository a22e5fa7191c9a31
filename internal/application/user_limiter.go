package application

import (
	"sync"

	"golang.org/x/time/rate"
)

// userLimiters hands out one token bucket per LINE user.
// A nil *userLimiters allows everything.
type userLimiters struct {
	mu       sync.RWMutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// newUserLimiters returns nil when perMinute is not positive
func newUserLimiters(perMinute, burst int) *userLimiters {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &userLimiters{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the user may send another prompt now
func (u *userLimiters) Allow(userID string) bool {
	if u == nil {
		return true
	}
	return u.get(userID).Allow()
}

func (u *userLimiters) get(userID string) *rate.Limiter {
	u.mu.RLock()
	limiter, ok := u.limiters[userID]
	u.mu.RUnlock()
	if ok {
		return limiter
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, ok = u.limiters[userID]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(u.limit, u.burst)
	u.limiters[userID] = limiter
	return limiter
}
