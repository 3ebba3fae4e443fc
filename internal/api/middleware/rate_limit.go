package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils/response"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

// RateLimit bounds attempts per user and action. It must run after
// Authenticate. When the limiter store is unavailable requests pass through.
func RateLimit(limiter RateLimiter, action string) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFromContext(r.Context())

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, errors.UnauthorizedError("Authentication required"))
				return
			}

			key := action + ":" + strconv.FormatInt(claims.UserID, 10)

			allowed, remaining, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("Rate limit check failed, allowing request", slog.String("key", key), slog.Any("error", err))
				next.ServeHTTP(w, r)

				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				logger.Warn("Rate limit exceeded", slog.String("action", action), slog.Int("retryAfter", retryAfter))
				response.Error(w, errors.TooManyRequestsError("Too many attempts, please try again later"))

				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		}
	}
}
