// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter enforces a GCRA limit in Redis and degrades to an in-process
// token bucket per key while Redis is unreachable.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	fallback *localBuckets
	cfg      RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		redis:    redis_rate.NewLimiter(rdb),
		fallback: newLocalBuckets(cfg.Limit),
		cfg:      cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.cfg.FailOpen {
				slog.WarnContext(r.Context(), "rate limiter unavailable, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.TransientError())
			return
		}

		writeRateLimitHeaders(w, res)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	res, err := rl.redis.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return res, nil
	}
	return rl.fallback.allow(key), nil
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

// KeyByTenant shares one bucket across an organization so a single tenant
// cannot starve the others by spreading load over many members. Solo users
// get their own bucket; anonymous requests fall back to the client IP.
func KeyByTenant(r *http.Request) string {
	p, ok := scope.FromContext(r.Context())
	if !ok {
		return KeyByIP(r)
	}
	if orgID, ok := p.OrganizationID(); ok {
		return "ratelimit:org:" + orgID
	}
	return "ratelimit:user:" + p.UserID
}

// KeyByRoute narrows base to the route shape, with ids collapsed, so
// expensive endpoints can carry their own budget.
func KeyByRoute(base func(*http.Request) string) func(*http.Request) string {
	return func(r *http.Request) string {
		return base(r) + ":route:" + r.Method + " " + routeShape(r.URL.Path)
	}
}

func routeShape(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if core.IsValidID(part) || isDigits(part) {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeRateLimitHeaders(w http.ResponseWriter, res *redis_rate.Result) {
	h := w.Header()
	limit := res.Limit

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit",
		fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.Response{
		Success: false,
		Error: &core.ErrorBody{
			Code: "RATE_LIMITED",
			Message: fmt.Sprintf(
				"rate limit exceeded, retry after %d seconds",
				retryAfter,
			),
		},
	})
}

const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localBuckets is the Redis-down fallback. Idle buckets are swept lazily on
// access, at most once per bucketIdleTTL.
type localBuckets struct {
	mu        sync.Mutex
	limit     redis_rate.Limit
	every     rate.Limit
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	return &localBuckets{
		limit:     limit,
		every:     rate.Limit(float64(limit.Rate) / limit.Period.Seconds()),
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (l *localBuckets) allow(key string) *redis_rate.Result {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > bucketIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	interval := time.Duration(float64(time.Second) / float64(l.every))
	res := &redis_rate.Result{
		Limit:      l.limit,
		Remaining:  max(int(b.limiter.TokensAt(now)), 0),
		ResetAfter: interval,
		RetryAfter: -1,
	}

	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
		res.Remaining = max(res.Remaining-1, 0)
	} else {
		res.RetryAfter = interval
	}
	return res
}

// Every builds a limit of n requests per window with the given burst.
func Every(n, burst int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: window}
}

func PerMinute(n, burst int) redis_rate.Limit {
	return Every(n, burst, time.Minute)
}
