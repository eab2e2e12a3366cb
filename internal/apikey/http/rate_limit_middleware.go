package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/jobtracker/internal/errors"
	"github.com/allisson/jobtracker/internal/httputil"
	"github.com/allisson/jobtracker/internal/ratelimit"
)

// RateLimitMiddleware enforces a per API key request budget.
//
// MUST be used after APIKeyAuthMiddleware. The limiter is keyed by the authenticated key id,
// so two keys of the same user are limited independently.
//
// Returns:
//   - 429 Too Many Requests with a Retry-After header when the budget is exhausted
//   - Continues otherwise
func RateLimitMiddleware(limiter ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		allowed, delay := limiter.Allow(principal.APIKey.ID.String())
		if !allowed {
			retryAfter := ratelimit.RetryAfterSeconds(delay)

			logger.Debug("rate limit exceeded",
				slog.String("api_key_id", principal.APIKey.ID.String()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
