package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// LoginLimiter throttles login attempts per client IP with a token bucket.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewLoginLimiter allows perMinute attempts per IP, with bursts of half that.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	perMinute = max(perMinute, 1)
	return &LoginLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		idle:     5 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one attempt for ip. When the bucket is empty it returns
// false and how long until the next attempt is allowed.
func (l *LoginLimiter) Allow(ip string) (bool, time.Duration) {
	now := l.now()
	cl := l.get(ip, now)

	r := cl.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *LoginLimiter) get(ip string, now time.Time) *clientLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, cl := range l.limiters {
		if now.After(cl.expires) {
			delete(l.limiters, key)
		}
	}

	cl, ok := l.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = cl
	}
	cl.expires = now.Add(l.idle)
	return cl
}

// Middleware rejects requests from clients that exhausted their attempts.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(c.ClientIP())
		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many login attempts",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
