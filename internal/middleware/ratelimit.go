package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles per client IP using a fixed Redis window, so the
// count survives restarts and is shared if more instances are added.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		key := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, ip)

		// Pipelined so the counter never exists without an expiry; a
		// crash between a bare INCR and EXPIRE would throttle the IP
		// forever.
		pipe := rl.client.TxPipeline()
		incr := pipe.Incr(r.Context(), key)
		pipe.ExpireNX(r.Context(), key, rl.window)
		if _, err := pipe.Exec(r.Context()); err != nil {
			// Redis being down should not lock everyone out.
			log.Printf("Rate limiter unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if incr.Val() > int64(rl.limit) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
