package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// ipLimiter counts requests per client IP in fixed windows. In-memory and
// per-process: good enough for slowing credential brute-force on a
// single-instance deployment, not a substitute for a shared limiter.
type ipLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	windows map[string]*ipWindow
}

type ipWindow struct {
	count int
	start time.Time
}

// allow records one request from ip and reports whether it stays under the
// limit. A window older than the configured duration resets.
func (l *ipLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[ip]
	if !ok || now.Sub(w.start) > l.window {
		l.windows[ip] = &ipWindow{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.max
}

// sweep drops windows that have been idle for two full durations, keeping
// the map bounded by the set of recently active IPs.
func (l *ipLimiter) sweep() {
	for {
		time.Sleep(time.Minute)

		l.mu.Lock()
		cutoff := time.Now().Add(-2 * l.window)
		for ip, w := range l.windows {
			if w.start.Before(cutoff) {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit limits each client IP to maxRequests per window, answering 429
// beyond that. Applied per-route to the credential endpoints (signup, login,
// change-password); each route gets its own limiter and budget.
func RateLimit(maxRequests int, window time.Duration) echo.MiddlewareFunc {
	l := &ipLimiter{
		max:     maxRequests,
		window:  window,
		windows: make(map[string]*ipWindow),
	}
	go l.sweep()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"type":    "rate_limited",
					"message": "Too many requests. Please try again later.",
				})
			}
			return next(c)
		}
	}
}
