package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	"github.com/allisson/jobtracker/internal/database"
	apperrors "github.com/allisson/jobtracker/internal/errors"
)

// MySQLAPIKeyRepository implements APIKey persistence for MySQL using BINARY(16) ids.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLAPIKey(row rowScanner) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var id, userID []byte

	if err := row.Scan(
		&id,
		&userID,
		&apiKey.Name,
		&apiKey.Prefix,
		&apiKey.SecretEnc,
		&apiKey.IsActive,
		&apiKey.CreatedAt,
		&apiKey.LastUsedAt,
	); err != nil {
		return nil, err
	}

	if err := apiKey.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
	}
	if err := apiKey.UserID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &apiKey, nil
}

// Create inserts a new key. A duplicate prefix returns ErrAPIKeyPrefixConflict.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	id, err := apiKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}
	userID, err := apiKey.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO api_keys (` + apiKeyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		apiKey.Name,
		apiKey.Prefix,
		apiKey.SecretEnc,
		apiKey.IsActive,
		apiKey.CreatedAt,
		apiKey.LastUsedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apikeyDomain.ErrAPIKeyPrefixConflict
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// FindActiveByPrefix returns the active key for prefix or ErrAPIKeyNotFound.
func (m *MySQLAPIKeyRepository) FindActiveByPrefix(
	ctx context.Context,
	prefix string,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE prefix = ? AND is_active = TRUE`

	apiKey, err := scanMySQLAPIKey(querier.QueryRowContext(ctx, query, prefix))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to find api key by prefix")
	}
	return apiKey, nil
}

// ListByUserID returns the user's keys ordered newest first.
func (m *MySQLAPIKeyRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
			  WHERE user_id = ?
			  ORDER BY created_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		apiKey, err := scanMySQLAPIKey(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}
		apiKeys = append(apiKeys, apiKey)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}
	return apiKeys, nil
}

// Deactivate revokes the key and reports whether an active row changed.
func (m *MySQLAPIKeyRepository) Deactivate(ctx context.Context, keyID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := keyID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal api key id")
	}

	query := `UPDATE api_keys SET is_active = FALSE WHERE id = ? AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to deactivate api key")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return affected > 0, nil
}

// TouchLastUsed sets last_used_at.
func (m *MySQLAPIKeyRepository) TouchLastUsed(ctx context.Context, keyID uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := keyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, at, id); err != nil {
		return apperrors.Wrap(err, "failed to update api key last_used_at")
	}
	return nil
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}
