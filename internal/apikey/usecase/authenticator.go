package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	cryptoService "github.com/allisson/jobtracker/internal/crypto/service"
	apperrors "github.com/allisson/jobtracker/internal/errors"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

type authenticator struct {
	apiKeyRepo  APIKeyRepository
	userRepo    UserRepository
	secretCodec cryptoService.SecretCodec
	now         func() time.Time
	logger      *slog.Logger
}

// Authenticate runs parse, lookup, decrypt, compare, owner lookup and the last-used touch
// in that order. Nothing reaches storage before the token parses.
func (a *authenticator) Authenticate(ctx context.Context, token string) (*apikeyDomain.Principal, error) {
	prefix, provided, err := apikeyDomain.ParseToken(token)
	if err != nil {
		return nil, err
	}

	apiKey, err := a.apiKeyRepo.FindActiveByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	stored, err := a.secretCodec.Decrypt(apiKey.SecretEnc)
	if err != nil {
		a.logger.Error("stored api key secret cannot be decrypted",
			slog.String("api_key_id", apiKey.ID.String()),
			slog.String("prefix", apiKey.Prefix),
		)
		return nil, apikeyDomain.ErrIntegrity
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return nil, apikeyDomain.ErrSecretMismatch
	}

	user, err := a.userRepo.GetByID(ctx, apiKey.UserID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			a.logger.Error("active api key has no owner",
				slog.String("api_key_id", apiKey.ID.String()),
				slog.String("user_id", apiKey.UserID.String()),
			)
			return nil, apikeyDomain.ErrOwnerMissing
		}
		return nil, err
	}

	now := a.now().UTC()
	if err := a.apiKeyRepo.TouchLastUsed(ctx, apiKey.ID, now); err != nil {
		a.logger.Warn("failed to update api key last_used_at",
			slog.String("api_key_id", apiKey.ID.String()),
			slog.Any("error", err),
		)
	} else {
		apiKey.LastUsedAt = &now
	}

	return &apikeyDomain.Principal{
		User:   user,
		APIKey: apiKey,
		Secret: stored,
	}, nil
}

// NewAuthenticator creates a new Authenticator. A nil clock falls back to time.Now.
func NewAuthenticator(
	apiKeyRepo APIKeyRepository,
	userRepo UserRepository,
	secretCodec cryptoService.SecretCodec,
	now func() time.Time,
	logger *slog.Logger,
) Authenticator {
	if now == nil {
		now = time.Now
	}
	return &authenticator{
		apiKeyRepo:  apiKeyRepo,
		userRepo:    userRepo,
		secretCodec: secretCodec,
		now:         now,
		logger:      logger,
	}
}
