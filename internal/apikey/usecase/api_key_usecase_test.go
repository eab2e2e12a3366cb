package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	databaseMocks "github.com/allisson/jobtracker/internal/database/mocks"
	apperrors "github.com/allisson/jobtracker/internal/errors"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

type apiKeyFixture struct {
	txManager *databaseMocks.MockTxManager
	apiKeys   *mockAPIKeyRepository
	users     *mockUserRepository
	generator *mockKeyGenerator
	codec     *mockSecretCodec
	useCase   APIKeyUseCase
}

func newAPIKeyFixture(t *testing.T) *apiKeyFixture {
	f := &apiKeyFixture{
		txManager: databaseMocks.NewMockTxManager(t),
		apiKeys:   &mockAPIKeyRepository{},
		users:     &mockUserRepository{},
		generator: &mockKeyGenerator{},
		codec:     &mockSecretCodec{},
	}
	f.useCase = NewAPIKeyUseCase(f.txManager, f.apiKeys, f.users, f.generator, f.codec, discardLogger())
	t.Cleanup(func() {
		f.apiKeys.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.generator.AssertExpectations(t)
		f.codec.AssertExpectations(t)
	})
	return f
}

func TestAPIKeyUseCase_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	owner := &userDomain.User{ID: userID, Email: "jane@example.com"}

	t.Run("Success_StoresOnlyCiphertext", func(t *testing.T) {
		f := newAPIKeyFixture(t)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, userID).Return(owner, nil).Once()
		f.generator.On("Issue").Return("abcdefghijkl", "s3cret", "ak_abcdefghijkl.s3cret", nil).Once()
		f.codec.On("Encrypt", "s3cret").Return("ciphertext", nil).Once()
		f.apiKeys.On("Create", ctx, mock.MatchedBy(func(k *apikeyDomain.APIKey) bool {
			return k.UserID == userID &&
				k.Name == "CI runner" &&
				k.Prefix == "abcdefghijkl" &&
				k.SecretEnc == "ciphertext" &&
				k.IsActive &&
				k.LastUsedAt == nil &&
				k.ID != uuid.Nil
		})).Return(nil).Once()

		output, err := f.useCase.Create(ctx, &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: "  CI runner "})
		require.NoError(t, err)
		assert.Equal(t, "ak_abcdefghijkl.s3cret", output.Token)
		assert.Equal(t, "CI runner", output.APIKey.Name)
		assert.False(t, output.APIKey.CreatedAt.IsZero())
	})

	t.Run("Success_RetriesOnPrefixConflict", func(t *testing.T) {
		f := newAPIKeyFixture(t)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, userID).Return(owner, nil).Once()
		f.generator.On("Issue").Return("prefix000001", "one", "ak_prefix000001.one", nil).Once()
		f.generator.On("Issue").Return("prefix000002", "two", "ak_prefix000002.two", nil).Once()
		f.codec.On("Encrypt", mock.Anything).Return("ciphertext", nil).Twice()
		f.apiKeys.On("Create", ctx, mock.MatchedBy(func(k *apikeyDomain.APIKey) bool {
			return k.Prefix == "prefix000001"
		})).Return(apikeyDomain.ErrAPIKeyPrefixConflict).Once()
		f.apiKeys.On("Create", ctx, mock.MatchedBy(func(k *apikeyDomain.APIKey) bool {
			return k.Prefix == "prefix000002"
		})).Return(nil).Once()

		output, err := f.useCase.Create(ctx, &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: "key"})
		require.NoError(t, err)
		assert.Equal(t, "ak_prefix000002.two", output.Token)
	})

	t.Run("Error_PrefixConflictExhaustsRetries", func(t *testing.T) {
		f := newAPIKeyFixture(t)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, userID).Return(owner, nil).Once()
		f.generator.On("Issue").Return("samesamesame", "x", "ak_samesamesame.x", nil).Times(maxIssueAttempts)
		f.codec.On("Encrypt", "x").Return("ciphertext", nil).Times(maxIssueAttempts)
		f.apiKeys.On("Create", ctx, mock.Anything).Return(apikeyDomain.ErrAPIKeyPrefixConflict).Times(maxIssueAttempts)

		output, err := f.useCase.Create(ctx, &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: "key"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Nil(t, output)
	})

	t.Run("Error_UserNotFound", func(t *testing.T) {
		f := newAPIKeyFixture(t)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, userID).Return(nil, userDomain.ErrUserNotFound).Once()

		_, err := f.useCase.Create(ctx, &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: "key"})
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
		f.generator.AssertNotCalled(t, "Issue")
	})

	t.Run("Error_EncryptFailure", func(t *testing.T) {
		f := newAPIKeyFixture(t)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, userID).Return(owner, nil).Once()
		f.generator.On("Issue").Return("abcdefghijkl", "s", "ak_abcdefghijkl.s", nil).Once()
		f.codec.On("Encrypt", "s").Return("", errors.New("cipher failure")).Once()

		_, err := f.useCase.Create(ctx, &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: "key"})
		assert.Error(t, err)
		f.apiKeys.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	invalid := []struct {
		name  string
		input *apikeyDomain.CreateAPIKeyInput
	}{
		{"missing user", &apikeyDomain.CreateAPIKeyInput{Name: "key"}},
		{"empty name", &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: ""}},
		{"blank name", &apikeyDomain.CreateAPIKeyInput{UserID: userID, Name: "   "}},
		{"name too long", &apikeyDomain.CreateAPIKeyInput{
			UserID: userID,
			Name:   strings.Repeat("n", apikeyDomain.MaxNameLength+1),
		}},
	}
	for _, tt := range invalid {
		t.Run("Error_Validation_"+tt.name, func(t *testing.T) {
			f := newAPIKeyFixture(t)

			_, err := f.useCase.Create(ctx, tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestAPIKeyUseCase_ListByUser(t *testing.T) {
	ctx := context.Background()
	f := newAPIKeyFixture(t)

	userID := uuid.Must(uuid.NewV7())
	keys := []*apikeyDomain.APIKey{{ID: uuid.Must(uuid.NewV7()), UserID: userID}}
	f.apiKeys.On("ListByUserID", ctx, userID).Return(keys, nil).Once()

	result, err := f.useCase.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, keys, result)
}

func TestAPIKeyUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ActiveKey", func(t *testing.T) {
		f := newAPIKeyFixture(t)
		keyID := uuid.Must(uuid.NewV7())
		f.apiKeys.On("Deactivate", ctx, keyID).Return(true, nil).Once()

		assert.NoError(t, f.useCase.Revoke(ctx, keyID))
	})

	t.Run("Success_AlreadyRevokedOrUnknown", func(t *testing.T) {
		f := newAPIKeyFixture(t)
		keyID := uuid.Must(uuid.NewV7())
		f.apiKeys.On("Deactivate", ctx, keyID).Return(false, nil).Once()

		assert.NoError(t, f.useCase.Revoke(ctx, keyID))
	})

	t.Run("Error_Repository", func(t *testing.T) {
		f := newAPIKeyFixture(t)
		keyID := uuid.Must(uuid.NewV7())
		f.apiKeys.On("Deactivate", ctx, keyID).Return(false, errors.New("db down")).Once()

		assert.Error(t, f.useCase.Revoke(ctx, keyID))
	})
}
