package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"marma_admin/internal/common"
	"marma_admin/internal/platform/ratelimit"

	"go.uber.org/zap"
)

const MsgTooManyRequests = "Too many requests. Please try again later."

// RateLimit allows limit requests per window for each client address. The
// limiter failing lets the request through.
func RateLimit(limiter ratelimit.Limiter, name string, limit int, window time.Duration, log *zap.Logger) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int((window + time.Second - 1) / time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := name + ":" + clientIP(r)
			allowed, remaining, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				w.Header().Set("Retry-After", retryAfter)
				common.RespondWithError(w, http.StatusTooManyRequests, MsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the socket peer, or the forwarded address when the router runs
// chi's RealIP behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
