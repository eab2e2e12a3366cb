package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	apikeyService "github.com/allisson/jobtracker/internal/apikey/service"
	apikeyUseCase "github.com/allisson/jobtracker/internal/apikey/usecase"
	apperrors "github.com/allisson/jobtracker/internal/errors"
	"github.com/allisson/jobtracker/internal/httputil"
	"github.com/allisson/jobtracker/internal/metrics"
)

// MaxSignedBodyBytes caps the body buffered for signature verification.
const MaxSignedBodyBytes int64 = 1 << 20

// APIKeyAuthMiddleware authenticates the X-API-Key header and stores the Principal in the
// request context.
//
// Every authentication failure produces the same 401 body. The reason is only logged.
//
// Usage:
//
//	api := router.Group("/api")
//	api.Use(APIKeyAuthMiddleware(authenticator, logger))
//	api.GET("/applications", func(c *gin.Context) {
//	    principal, _ := GetPrincipal(c.Request.Context())
//	    // principal.User.ID owns the request
//	})
func APIKeyAuthMiddleware(authenticator apikeyUseCase.Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(apikeyDomain.HeaderAPIKey)

		principal, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("reason", apikeyDomain.FailureReason(err)),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		logger.Debug("authentication successful",
			slog.String("api_key_id", principal.APIKey.ID.String()),
			slog.String("user_id", principal.User.ID.String()))

		c.Next()
	}
}

// SignatureMiddleware verifies the optional X-Timestamp/X-Signature pair with the
// authenticated key's secret. Requests without either header pass through.
//
// MUST be used after APIKeyAuthMiddleware. The request body is read and restored so
// handlers can still bind it. Signed bodies over MaxSignedBodyBytes get 413.
func SignatureMiddleware(
	verifier apikeyService.SignatureVerifier,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Error("signature middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		in := apikeyService.SignatureInput{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Timestamp: c.GetHeader(apikeyDomain.HeaderTimestamp),
			Signature: c.GetHeader(apikeyDomain.HeaderSignature),
		}

		if in.Timestamp != "" || in.Signature != "" {
			body, err := readAndRestoreBody(c)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					logger.Warn("signed request body too large",
						slog.Int64("limit", tooLarge.Limit),
						slog.String("api_key_id", principal.APIKey.ID.String()))
					c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
						Error:   "payload_too_large",
						Message: "Request body too large",
					})
					return
				}
				httputil.HandleBadRequestGin(c, err, logger)
				c.Abort()
				return
			}
			in.Body = body
		}

		if err := verifier.Verify(principal.Secret, in); err != nil {
			reason := apikeyDomain.FailureReason(err)
			businessMetrics.RecordAuthFailure(c.Request.Context(), reason)
			logger.Debug("signature verification failed",
				slog.String("reason", reason),
				slog.String("api_key_id", principal.APIKey.ID.String()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

func readAndRestoreBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxSignedBodyBytes))
	if err != nil {
		return nil, err
	}
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
