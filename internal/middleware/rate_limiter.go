package middleware

// Fixed-window, in-process rate limiting. Counters live in a plain map
// guarded by a mutex; a janitor goroutine drops idle IPs so the map
// does not grow without bound. Enough for a single-instance back
// office — a Redis-backed limiter only becomes necessary behind a load
// balancer.

import (
	"net/http"
	"sync"
	"time"

	"github.com/qureshi08/NPF-1/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const janitorInterval = 5 * time.Minute

// loginLimit caps credential-guessing attempts per IP per minute.
const loginLimit = 20

type window struct {
	hits    int
	resetAt time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

func newIPLimiter(limit int, span time.Duration) *ipLimiter {
	l := &ipLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
	go l.janitor()
	return l
}

// allow counts one hit for ip and reports whether it is still within
// the limit, plus when the current window resets.
func (l *ipLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.windows[ip]
	if w == nil || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.span)}
		l.windows[ip] = w
	}
	w.hits++
	return w.hits <= l.limit, w.resetAt
}

func (l *ipLimiter) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		dropped := 0

		l.mu.Lock()
		for ip, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, ip)
				dropped++
			}
		}
		l.mu.Unlock()

		if dropped > 0 {
			log.Debug().Int("dropped", dropped).Msg("rate limiter: idle entries dropped")
		}
	}
}

// LoginRateLimiter throttles the login endpoint per client IP.
func LoginRateLimiter() gin.HandlerFunc {
	limiter := newIPLimiter(loginLimit, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := limiter.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many login attempts. Try again in a minute."))
			return
		}
		c.Next()
	}
}

// RateLimiter guards the whole API surface with a per-IP budget.
func RateLimiter(limit int, span time.Duration) gin.HandlerFunc {
	limiter := newIPLimiter(limit, span)
	return func(c *gin.Context) {
		ok, resetAt := limiter.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", resetAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests. Try again shortly."))
			return
		}
		c.Next()
	}
}
