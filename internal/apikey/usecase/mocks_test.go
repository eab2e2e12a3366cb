package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

// mockAPIKeyRepository is a mock implementation of APIKeyRepository for testing.
type mockAPIKeyRepository struct {
	mock.Mock
}

func (m *mockAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

func (m *mockAPIKeyRepository) FindActiveByPrefix(ctx context.Context, prefix string) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func (m *mockAPIKeyRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

func (m *mockAPIKeyRepository) Deactivate(ctx context.Context, keyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, keyID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAPIKeyRepository) TouchLastUsed(ctx context.Context, keyID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, keyID, at)
	return args.Error(0)
}

// mockUserRepository is a mock implementation of UserRepository for testing.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// mockKeyGenerator is a mock implementation of service.KeyGenerator for testing.
type mockKeyGenerator struct {
	mock.Mock
}

func (m *mockKeyGenerator) Issue() (prefix, secret, token string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

// mockSecretCodec is a mock implementation of service.SecretCodec for testing.
type mockSecretCodec struct {
	mock.Mock
}

func (m *mockSecretCodec) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *mockSecretCodec) Decrypt(ciphertext string) (string, error) {
	args := m.Called(ciphertext)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
