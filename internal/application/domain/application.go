// Package domain defines job applications and their lifecycle status.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/jobtracker/internal/errors"
)

// Status is the stage of a job application.
type Status string

// Application statuses.
const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusOffer        Status = "offer"
	StatusArchived     Status = "archived"
)

// Field limits.
const (
	MaxCompanyLength   = 255
	MaxRoleTitleLength = 255
	MaxSourceLength    = 100
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusRejected, StatusOffer, StatusArchived}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseStatus converts text into a Status.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Application is a job application tracked for a user.
type Application struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Company   string
	RoleTitle string
	Source    *string // linkedin, greenhouse, referral...
	Status    Status
	JobURL    *string
	Notes     *string // Sanitized HTML
	AppliedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateApplicationInput contains the parameters for recording an application.
// An empty Status defaults to StatusApplied.
type CreateApplicationInput struct {
	UserID    uuid.UUID
	Company   string
	RoleTitle string
	Source    *string
	Status    Status
	JobURL    *string
	Notes     *string
	AppliedAt *time.Time
}

// ListApplicationsFilter narrows and pages a listing. Nil filters match everything.
type ListApplicationsFilter struct {
	UserID *uuid.UUID
	Status *Status
	Limit  int
	Offset int
}

// ApplicationPage is one page of a listing plus the unpaged total.
type ApplicationPage struct {
	Items []*Application
	Total int64
}

// ErrInvalidStatus indicates an unknown application status.
var ErrInvalidStatus = errors.Wrap(
	errors.ErrInvalidInput,
	"status: must be one of applied, interviewing, rejected, offer, archived",
)
