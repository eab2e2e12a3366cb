package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	apikeyUseCase "github.com/allisson/jobtracker/internal/apikey/usecase"
)

type apiKeyOutput struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	Token      string     `json:"token,omitempty"`
}

func toAPIKeyOutput(apiKey *apikeyDomain.APIKey) apiKeyOutput {
	return apiKeyOutput{
		ID:         apiKey.ID.String(),
		UserID:     apiKey.UserID.String(),
		Name:       apiKey.Name,
		Prefix:     apiKey.Prefix,
		IsActive:   apiKey.IsActive,
		CreatedAt:  apiKey.CreatedAt,
		LastUsedAt: apiKey.LastUsedAt,
	}
}

func parseID(value, flag string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s: must be a UUID", flag)
	}
	return id, nil
}

// RunCreateAPIKey issues an API key for an existing user and prints the token.
// The token is printed once and never logged.
func RunCreateAPIKey(
	ctx context.Context,
	useCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userIDStr string,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	userID, err := parseID(userIDStr, "user-id")
	if err != nil {
		return err
	}

	output, err := useCase.Create(ctx, &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: name})
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	result := toAPIKeyOutput(output.APIKey)
	result.Token = output.Token

	if format == formatJSON {
		if err := writeJSON(writer, result); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "API key created")
		_, _ = fmt.Fprintf(writer, "ID:      %s\n", result.ID)
		_, _ = fmt.Fprintf(writer, "User ID: %s\n", result.UserID)
		_, _ = fmt.Fprintf(writer, "Name:    %s\n", result.Name)
		_, _ = fmt.Fprintf(writer, "Token:   %s\n", result.Token)
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, "# Store the token now, it cannot be retrieved again.")
	}

	logger.Info("api key created",
		slog.String("api_key_id", result.ID),
		slog.String("user_id", result.UserID),
	)
	return nil
}

// RunListAPIKeys prints a user's API keys, newest first.
func RunListAPIKeys(
	ctx context.Context,
	useCase apikeyUseCase.APIKeyUseCase,
	writer io.Writer,
	userIDStr string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	userID, err := parseID(userIDStr, "user-id")
	if err != nil {
		return err
	}

	apiKeys, err := useCase.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list api keys: %w", err)
	}

	results := make([]apiKeyOutput, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		results = append(results, toAPIKeyOutput(apiKey))
	}

	if format == formatJSON {
		return writeJSON(writer, results)
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintln(writer, "No API keys found")
		return nil
	}
	for _, r := range results {
		state := "active"
		if !r.IsActive {
			state = "revoked"
		}
		_, _ = fmt.Fprintf(writer, "%s  %-8s  %s  %s\n", r.ID, state, r.Prefix, r.Name)
	}
	return nil
}

// RunRevokeAPIKey deactivates an API key. Revoking an unknown or revoked key succeeds.
func RunRevokeAPIKey(
	ctx context.Context,
	useCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	keyIDStr string,
) error {
	keyID, err := parseID(keyIDStr, "id")
	if err != nil {
		return err
	}

	if err := useCase.Revoke(ctx, keyID); err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "API key %s revoked\n", keyID)
	logger.Info("api key revoked via cli", slog.String("api_key_id", keyID.String()))
	return nil
}
