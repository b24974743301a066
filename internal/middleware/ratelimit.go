package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sandesh691/agribid-sub001/internal/redis"
	"github.com/sandesh691/agribid-sub001/internal/respond"
)

type RateLimit struct {
	redis *redis.Client
}

func NewRateLimit(redisClient *redis.Client) *RateLimit {
	return &RateLimit{redis: redisClient}
}

// PerUser limits an authenticated route to `limit` requests per `window`,
// keyed by user id. Redis outages fail open; limiting is protective, not
// load-bearing.
func (rl *RateLimit) PerUser(prefix string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.redis == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims := GetClaims(r.Context())
			if claims == nil {
				next.ServeHTTP(w, r)
				return
			}

			rl.limit(w, r, next, prefix+":"+claims.UserID.String(), limit, window)
		})
	}
}

// PerIP limits a pre-auth route to `limit` requests per `window`, keyed by
// client address. No session exists yet on these routes, so the user id key
// is unavailable.
func (rl *RateLimit) PerIP(prefix string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.redis == nil {
				next.ServeHTTP(w, r)
				return
			}

			rl.limit(w, r, next, prefix+":"+clientIP(r), limit, window)
		})
	}
}

func (rl *RateLimit) limit(w http.ResponseWriter, r *http.Request, next http.Handler, key string, limit int64, window time.Duration) {
	result, err := rl.redis.CheckRateLimit(r.Context(), key, limit, window)
	if err != nil {
		GetLogger(r.Context()).Warn().Err(err).Msg("rate limit check failed, allowing request")
		next.ServeHTTP(w, r)
		return
	}
	if !result.Allowed {
		respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests, slow down"})
		return
	}
	next.ServeHTTP(w, r)
}

// clientIP resolves the originating address, trusting the first hop of
// X-Forwarded-For when the request came through the load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
