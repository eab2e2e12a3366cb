// Package http provides HTTP handlers for job applications. Routes are mounted under the
// authenticated /api group.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	"github.com/allisson/jobtracker/internal/application/http/dto"
	applicationUseCase "github.com/allisson/jobtracker/internal/application/usecase"
	apikeyHTTP "github.com/allisson/jobtracker/internal/apikey/http"
	apperrors "github.com/allisson/jobtracker/internal/errors"
	"github.com/allisson/jobtracker/internal/httputil"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

// ApplicationHandler handles HTTP requests for job applications.
type ApplicationHandler struct {
	applicationUseCase applicationUseCase.ApplicationUseCase
	logger             *slog.Logger
}

// NewApplicationHandler creates a new application handler with required dependencies.
func NewApplicationHandler(
	applicationUseCase applicationUseCase.ApplicationUseCase,
	logger *slog.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		applicationUseCase: applicationUseCase,
		logger:             logger,
	}
}

// CreateHandler records a job application.
// POST /api/applications - Returns 201 Created, 404 when the user is unknown,
// 422 on invalid input.
func (h *ApplicationHandler) CreateHandler(c *gin.Context) {
	principal, ok := apikeyHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	application, err := h.applicationUseCase.Create(c.Request.Context(), req.ToInput(principal.User.ID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapApplicationToResponse(application))
}

// ListHandler lists job applications with optional user and status filters.
// GET /api/applications?user_id=&status=&limit=&offset= - Returns 200 OK, 422 on an
// invalid query.
func (h *ApplicationHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := applicationDomain.ListApplicationsFilter{Limit: limit, Offset: offset}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(c, errors.New("invalid user_id parameter: must be a UUID"), h.logger)
			return
		}
		filter.UserID = &userID
	}

	if raw := c.Query("status"); raw != "" {
		status, err := applicationDomain.ParseStatus(raw)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		filter.Status = &status
	}

	page, err := h.applicationUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPageToListResponse(page, limit, offset))
}
