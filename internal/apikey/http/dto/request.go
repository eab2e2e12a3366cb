// Package dto provides data transfer objects for the API key HTTP layer.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

// CreateAPIKeyRequest contains the parameters for issuing an API key.
type CreateAPIKeyRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Validate checks if the create API key request is valid.
func (r *CreateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.RuneLength(1, apikeyDomain.MaxNameLength),
		),
	)
}

// ToInput converts the request into the use case input. Call Validate first.
func (r *CreateAPIKeyRequest) ToInput() *apikeyDomain.CreateAPIKeyInput {
	return &apikeyDomain.CreateAPIKeyInput{
		UserID: uuid.MustParse(r.UserID),
		Name:   r.Name,
	}
}
