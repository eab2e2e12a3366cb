// Package dto provides data transfer objects for the application HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

// CreateApplicationRequest contains the parameters for recording an application.
// UserID may be omitted, in which case the authenticated user owns the application.
type CreateApplicationRequest struct {
	UserID    string     `json:"user_id"`
	Company   string     `json:"company"`
	RoleTitle string     `json:"role_title"`
	Source    *string    `json:"source"`
	Status    string     `json:"status"`
	JobURL    *string    `json:"job_url"`
	Notes     *string    `json:"notes"`
	AppliedAt *time.Time `json:"applied_at"`
}

// Validate checks the request shape. Trimming and sanitizing happen in the use case.
func (r *CreateApplicationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, customValidation.UUID),
		validation.Field(&r.Company, validation.Required, customValidation.NotBlank),
		validation.Field(&r.RoleTitle, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Status, validation.In(statusValues()...).
			Error("must be one of applied, interviewing, rejected, offer, archived")),
	)
}

// ToInput converts the request into the use case input. defaultUserID is used when the
// request omits user_id. Call Validate first.
func (r *CreateApplicationRequest) ToInput(defaultUserID uuid.UUID) *applicationDomain.CreateApplicationInput {
	userID := defaultUserID
	if r.UserID != "" {
		userID = uuid.MustParse(r.UserID)
	}
	return &applicationDomain.CreateApplicationInput{
		UserID:    userID,
		Company:   r.Company,
		RoleTitle: r.RoleTitle,
		Source:    r.Source,
		Status:    applicationDomain.Status(r.Status),
		JobURL:    r.JobURL,
		Notes:     r.Notes,
		AppliedAt: r.AppliedAt,
	}
}

func statusValues() []any {
	values := make([]any, 0, len(applicationDomain.Statuses))
	for _, status := range applicationDomain.Statuses {
		values = append(values, string(status))
	}
	return values
}
