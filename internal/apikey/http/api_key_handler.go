package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/jobtracker/internal/apikey/http/dto"
	apikeyUseCase "github.com/allisson/jobtracker/internal/apikey/usecase"
	"github.com/allisson/jobtracker/internal/httputil"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

// APIKeyHandler handles HTTP requests for API key management.
type APIKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// CreateHandler issues a new API key.
// POST /api-keys - Returns 201 Created with the token, 404 when the user is unknown,
// 422 on invalid input.
func (h *APIKeyHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAPIKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreateOutputToResponse(output))
}

// ListByUserHandler lists a user's API keys, newest first.
// GET /api-keys/:user_id - Returns 200 OK, 400 on a malformed user id.
func (h *APIKeyHandler) ListByUserHandler(c *gin.Context) {
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	apiKeys, err := h.apiKeyUseCase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToResponse(apiKeys))
}

// RevokeHandler revokes an API key.
// DELETE /api-keys/:key_id - Returns 204 No Content, also for unknown or revoked keys.
func (h *APIKeyHandler) RevokeHandler(c *gin.Context) {
	keyID, err := parseUUIDParam(c, "key_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.apiKeyUseCase.Revoke(c.Request.Context(), keyID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}
