// Package usecase implements user registration and lookup.
package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	userDomain "github.com/allisson/jobtracker/internal/user/domain"
	appValidation "github.com/allisson/jobtracker/internal/validation"
)

type userUseCase struct {
	userRepo UserRepository
}

func validateCreateUserInput(input *userDomain.CreateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			validation.Length(3, 255),
			appValidation.Email,
		),
		validation.Field(&input.FullName,
			validation.NilOrNotEmpty.Error("full_name must not be empty when provided"),
			validation.Length(0, 255),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a user after normalizing the email. A blank full name is stored as NULL.
func (u *userUseCase) Create(
	ctx context.Context,
	input *userDomain.CreateUserInput,
) (*userDomain.User, error) {
	normalized := &userDomain.CreateUserInput{
		Email:    userDomain.NormalizeEmail(input.Email),
		FullName: trimOptional(input.FullName),
	}
	if err := validateCreateUserInput(normalized); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     normalized.Email,
		FullName:  normalized.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID.
func (u *userUseCase) Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	return u.userRepo.GetByID(ctx, userID)
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

// NewUserUseCase creates a new UserUseCase with the provided dependencies.
func NewUserUseCase(userRepo UserRepository) UserUseCase {
	return &userUseCase{userRepo: userRepo}
}
