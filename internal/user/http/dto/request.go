// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	userDomain "github.com/allisson/jobtracker/internal/user/domain"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

// CreateUserRequest contains the parameters for registering a user.
type CreateUserRequest struct {
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// Validate checks if the create user request is valid.
func (r *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(3, 255),
		),
		validation.Field(&r.FullName, validation.Length(0, 255)),
	)
}

// ToInput converts the request into the use case input.
func (r *CreateUserRequest) ToInput() *userDomain.CreateUserInput {
	return &userDomain.CreateUserInput{
		Email:    r.Email,
		FullName: r.FullName,
	}
}
