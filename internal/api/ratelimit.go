package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/listenupapp/bookcatalog/internal/http/response"
	"github.com/listenupapp/bookcatalog/internal/ratelimit"
)

// RateLimitMiddleware creates a middleware that rate limits requests by client IP.
// Returns 429 Too Many Requests with a Retry-After header when the limit is exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.TooManyRequests(w, limiter.RetryAfter(key), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address from the request. middleware.RealIP
// runs first, so forwarded headers are already folded into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
