package dto

import (
	"time"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
)

// ApplicationResponse represents an application in API responses.
type ApplicationResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Company   string     `json:"company"`
	RoleTitle string     `json:"role_title"`
	Source    *string    `json:"source"`
	Status    string     `json:"status"`
	JobURL    *string    `json:"job_url"`
	Notes     *string    `json:"notes"`
	AppliedAt *time.Time `json:"applied_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ListApplicationsResponse is one page of applications.
type ListApplicationsResponse struct {
	Items  []ApplicationResponse `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// MapApplicationToResponse converts a domain application to an API response.
func MapApplicationToResponse(application *applicationDomain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        application.ID.String(),
		UserID:    application.UserID.String(),
		Company:   application.Company,
		RoleTitle: application.RoleTitle,
		Source:    application.Source,
		Status:    string(application.Status),
		JobURL:    application.JobURL,
		Notes:     application.Notes,
		AppliedAt: application.AppliedAt,
		CreatedAt: application.CreatedAt,
		UpdatedAt: application.UpdatedAt,
	}
}

// MapPageToListResponse converts a page to a list API response.
func MapPageToListResponse(page *applicationDomain.ApplicationPage, limit, offset int) ListApplicationsResponse {
	items := make([]ApplicationResponse, 0, len(page.Items))
	for _, application := range page.Items {
		items = append(items, MapApplicationToResponse(application))
	}
	return ListApplicationsResponse{
		Items:  items,
		Total:  page.Total,
		Limit:  limit,
		Offset: offset,
	}
}
