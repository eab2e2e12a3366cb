// Package usecase implements job application recording and listing.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/microcosm-cc/bluemonday"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	"github.com/allisson/jobtracker/internal/database"
	"github.com/allisson/jobtracker/internal/httputil"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

type applicationUseCase struct {
	txManager       database.TxManager
	applicationRepo ApplicationRepository
	userRepo        UserRepository
	sanitizer       *bluemonday.Policy
}

func validateCreateApplicationInput(input *applicationDomain.CreateApplicationInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.UserID, customValidation.RequiredUUID),
		validation.Field(&input.Company,
			validation.Required,
			validation.RuneLength(1, applicationDomain.MaxCompanyLength),
		),
		validation.Field(&input.RoleTitle,
			validation.Required,
			validation.RuneLength(1, applicationDomain.MaxRoleTitleLength),
		),
		validation.Field(&input.Source, validation.RuneLength(0, applicationDomain.MaxSourceLength)),
		validation.Field(&input.Status, validation.By(func(value any) error {
			if !value.(applicationDomain.Status).IsValid() {
				return validation.NewError("validation_status",
					"must be one of applied, interviewing, rejected, offer, archived")
			}
			return nil
		})),
		validation.Field(&input.JobURL, customValidation.HTTPURL),
	)
	return customValidation.WrapValidationError(err)
}

func validateListFilter(filter applicationDomain.ListApplicationsFilter) error {
	err := validation.ValidateStruct(&filter,
		validation.Field(&filter.Limit, validation.Required, validation.Min(1), validation.Max(httputil.MaxLimit)),
		validation.Field(&filter.Offset, validation.Min(0)),
	)
	if err != nil {
		return customValidation.WrapValidationError(err)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return applicationDomain.ErrInvalidStatus
	}
	return nil
}

// Create trims text fields, sanitizes notes and stores the application.
func (a *applicationUseCase) Create(
	ctx context.Context,
	input *applicationDomain.CreateApplicationInput,
) (*applicationDomain.Application, error) {
	normalized := a.normalize(input)
	if err := validateCreateApplicationInput(normalized); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	application := &applicationDomain.Application{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    normalized.UserID,
		Company:   normalized.Company,
		RoleTitle: normalized.RoleTitle,
		Source:    normalized.Source,
		Status:    normalized.Status,
		JobURL:    normalized.JobURL,
		Notes:     normalized.Notes,
		AppliedAt: normalized.AppliedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := a.userRepo.GetByID(ctx, normalized.UserID); err != nil {
			return err
		}
		return a.applicationRepo.Create(ctx, application)
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

func (a *applicationUseCase) normalize(
	input *applicationDomain.CreateApplicationInput,
) *applicationDomain.CreateApplicationInput {
	status := input.Status
	if status == "" {
		status = applicationDomain.StatusApplied
	}

	var notes *string
	if input.Notes != nil {
		sanitized := strings.TrimSpace(a.sanitizer.Sanitize(*input.Notes))
		if sanitized != "" {
			notes = &sanitized
		}
	}

	var appliedAt *time.Time
	if input.AppliedAt != nil {
		utc := input.AppliedAt.UTC()
		appliedAt = &utc
	}

	return &applicationDomain.CreateApplicationInput{
		UserID:    input.UserID,
		Company:   strings.TrimSpace(input.Company),
		RoleTitle: strings.TrimSpace(input.RoleTitle),
		Source:    trimOptional(input.Source),
		Status:    status,
		JobURL:    trimOptional(input.JobURL),
		Notes:     notes,
		AppliedAt: appliedAt,
	}
}

// List returns a page of applications and the total matching count.
func (a *applicationUseCase) List(
	ctx context.Context,
	filter applicationDomain.ListApplicationsFilter,
) (*applicationDomain.ApplicationPage, error) {
	if err := validateListFilter(filter); err != nil {
		return nil, err
	}

	items, total, err := a.applicationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &applicationDomain.ApplicationPage{Items: items, Total: total}, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NewApplicationUseCase creates a new ApplicationUseCase. Notes are sanitized with the
// bluemonday UGC policy.
func NewApplicationUseCase(
	txManager database.TxManager,
	applicationRepo ApplicationRepository,
	userRepo UserRepository,
) ApplicationUseCase {
	return &applicationUseCase{
		txManager:       txManager,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		sanitizer:       bluemonday.UGCPolicy(),
	}
}
