package http

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPrincipal(secret string) *apikeyDomain.Principal {
	userID := uuid.Must(uuid.NewV7())
	return &apikeyDomain.Principal{
		User: &userDomain.User{ID: userID, Email: "jane@example.com"},
		APIKey: &apikeyDomain.APIKey{
			ID:       uuid.Must(uuid.NewV7()),
			UserID:   userID,
			Prefix:   "abcdefghijkl",
			IsActive: true,
		},
		Secret: secret,
	}
}

// withPrincipal injects a principal the way APIKeyAuthMiddleware would.
func withPrincipal(principal *apikeyDomain.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func testMode(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
}
