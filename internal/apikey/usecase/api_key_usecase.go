// Package usecase implements API key issuance, listing, revocation and authentication.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	apikeyService "github.com/allisson/jobtracker/internal/apikey/service"
	cryptoService "github.com/allisson/jobtracker/internal/crypto/service"
	"github.com/allisson/jobtracker/internal/database"
	apperrors "github.com/allisson/jobtracker/internal/errors"
	customValidation "github.com/allisson/jobtracker/internal/validation"
)

// maxIssueAttempts bounds retries after a prefix collision.
const maxIssueAttempts = 3

type apiKeyUseCase struct {
	txManager    database.TxManager
	apiKeyRepo   APIKeyRepository
	userRepo     UserRepository
	keyGenerator apikeyService.KeyGenerator
	secretCodec  cryptoService.SecretCodec
	logger       *slog.Logger
}

func validateCreateAPIKeyInput(input *apikeyDomain.CreateAPIKeyInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.UserID, customValidation.RequiredUUID),
		validation.Field(&input.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.RuneLength(1, apikeyDomain.MaxNameLength),
		),
	)
	return customValidation.WrapValidationError(err)
}

// Create issues a key. Only the encrypted secret is persisted.
func (a *apiKeyUseCase) Create(
	ctx context.Context,
	input *apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.CreateAPIKeyOutput, error) {
	normalized := &apikeyDomain.CreateAPIKeyInput{
		UserID: input.UserID,
		Name:   strings.TrimSpace(input.Name),
	}
	if err := validateCreateAPIKeyInput(normalized); err != nil {
		return nil, err
	}

	var output *apikeyDomain.CreateAPIKeyOutput
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := a.userRepo.GetByID(ctx, normalized.UserID); err != nil {
			return err
		}

		var err error
		output, err = a.issue(ctx, normalized)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("api key created",
		slog.String("api_key_id", output.APIKey.ID.String()),
		slog.String("user_id", output.APIKey.UserID.String()),
		slog.String("prefix", output.APIKey.Prefix),
	)
	return output, nil
}

func (a *apiKeyUseCase) issue(
	ctx context.Context,
	input *apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.CreateAPIKeyOutput, error) {
	var lastErr error
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		prefix, secret, token, err := a.keyGenerator.Issue()
		if err != nil {
			return nil, err
		}

		secretEnc, err := a.secretCodec.Encrypt(secret)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encrypt api key secret")
		}

		apiKey := &apikeyDomain.APIKey{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    input.UserID,
			Name:      input.Name,
			Prefix:    prefix,
			SecretEnc: secretEnc,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}

		err = a.apiKeyRepo.Create(ctx, apiKey)
		if err == nil {
			return &apikeyDomain.CreateAPIKeyOutput{APIKey: apiKey, Token: token}, nil
		}
		if !apperrors.Is(err, apikeyDomain.ErrAPIKeyPrefixConflict) {
			return nil, err
		}

		a.logger.Warn("api key prefix collision, retrying", slog.Int("attempt", attempt))
		lastErr = err
	}
	return nil, lastErr
}

// ListByUser returns the user's keys, newest first.
func (a *apiKeyUseCase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	return a.apiKeyRepo.ListByUserID(ctx, userID)
}

// Revoke deactivates a key. It is idempotent.
func (a *apiKeyUseCase) Revoke(ctx context.Context, keyID uuid.UUID) error {
	changed, err := a.apiKeyRepo.Deactivate(ctx, keyID)
	if err != nil {
		return err
	}
	if changed {
		a.logger.Info("api key revoked", slog.String("api_key_id", keyID.String()))
	}
	return nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	apiKeyRepo APIKeyRepository,
	userRepo UserRepository,
	keyGenerator apikeyService.KeyGenerator,
	secretCodec cryptoService.SecretCodec,
	logger *slog.Logger,
) APIKeyUseCase {
	return &apiKeyUseCase{
		txManager:    txManager,
		apiKeyRepo:   apiKeyRepo,
		userRepo:     userRepo,
		keyGenerator: keyGenerator,
		secretCodec:  secretCodec,
		logger:       logger,
	}
}
