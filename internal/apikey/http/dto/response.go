package dto

import (
	"time"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
)

// APIKeyResponse represents an API key in API responses. The secret is never included.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// CreateAPIKeyResponse contains the issued key.
// SECURITY: Token is only returned once and must be saved securely.
type CreateAPIKeyResponse struct {
	APIKeyResponse
	Token string `json:"token"` //nolint:gosec // returned once on creation
}

// MapAPIKeyToResponse converts a domain API key to an API response.
func MapAPIKeyToResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         apiKey.ID.String(),
		UserID:     apiKey.UserID.String(),
		Name:       apiKey.Name,
		Prefix:     apiKey.Prefix,
		IsActive:   apiKey.IsActive,
		CreatedAt:  apiKey.CreatedAt,
		LastUsedAt: apiKey.LastUsedAt,
	}
}

// MapCreateOutputToResponse converts the issuance output to an API response.
func MapCreateOutputToResponse(output *apikeyDomain.CreateAPIKeyOutput) CreateAPIKeyResponse {
	return CreateAPIKeyResponse{
		APIKeyResponse: MapAPIKeyToResponse(output.APIKey),
		Token:          output.Token,
	}
}

// MapAPIKeysToResponse converts domain API keys to API responses.
func MapAPIKeysToResponse(apiKeys []*apikeyDomain.APIKey) []APIKeyResponse {
	responses := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		responses = append(responses, MapAPIKeyToResponse(apiKey))
	}
	return responses
}
