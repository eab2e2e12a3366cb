package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
)

// KeySource describes where the API key encryption key comes from.
type KeySource struct {
	// Secret is API_KEY_ENC_SECRET: a base64 key, a passphrase, or KMS ciphertext.
	Secret string
	// KMSProvider and KMSKeyURI switch Secret to KMS ciphertext when both are set.
	KMSProvider string
	KMSKeyURI   string
}

// UsesKMS reports whether Secret must be unwrapped through a KMS keeper.
func (s KeySource) UsesKMS() bool {
	return s.KMSProvider != "" && s.KMSKeyURI != ""
}

type keyLoader struct {
	kmsService KMSService
	logger     *slog.Logger
}

// NewKeyLoader creates a KeyLoader that unwraps KMS ciphertext through kmsService.
func NewKeyLoader(kmsService KMSService, logger *slog.Logger) KeyLoader {
	return &keyLoader{kmsService: kmsService, logger: logger}
}

// Load resolves the encryption key. An empty secret yields a random key that only lives
// as long as the process, so stored secrets become unreadable after a restart.
func (l *keyLoader) Load(ctx context.Context, source KeySource) ([]byte, bool, error) {
	if strings.TrimSpace(source.Secret) == "" {
		key, err := cryptoDomain.GenerateKey()
		if err != nil {
			return nil, false, err
		}
		l.logger.Warn(
			"API_KEY_ENC_SECRET is not set, using an ephemeral encryption key; " +
				"API keys issued by this process will stop working after a restart",
		)
		return key, true, nil
	}

	if source.UsesKMS() {
		key, err := l.unwrap(ctx, source)
		if err != nil {
			return nil, false, err
		}
		l.logger.Info("encryption key unwrapped", slog.String("kms_provider", source.KMSProvider))
		return key, false, nil
	}

	key, err := cryptoDomain.DecodeEncryptionKey(source.Secret)
	if err != nil {
		return nil, false, err
	}
	return key, false, nil
}

func (l *keyLoader) unwrap(ctx context.Context, source KeySource) ([]byte, error) {
	ciphertext, err := cryptoDomain.DecodeBase64(strings.TrimSpace(source.Secret))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", cryptoDomain.ErrKeyUnwrapFailed, err)
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, source.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			l.logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnwrapFailed, err)
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf(
			"%w: unwrapped key must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKeySize,
			cryptoDomain.KeySize,
			len(key),
		)
	}
	return key, nil
}
