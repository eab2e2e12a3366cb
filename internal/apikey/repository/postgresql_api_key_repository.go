// Package repository implements API key persistence for PostgreSQL and MySQL.
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

const apiKeyColumns = `id, user_id, name, prefix, secret_enc, is_active, created_at, last_used_at`

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new key. A duplicate prefix returns ErrAPIKeyPrefixConflict.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (` + apiKeyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.UserID,
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
func (p *PostgreSQLAPIKeyRepository) FindActiveByPrefix(
	ctx context.Context,
	prefix string,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE prefix = $1 AND is_active = TRUE`

	var apiKey apikeyDomain.APIKey
	err := querier.QueryRowContext(ctx, query, prefix).Scan(
		&apiKey.ID,
		&apiKey.UserID,
		&apiKey.Name,
		&apiKey.Prefix,
		&apiKey.SecretEnc,
		&apiKey.IsActive,
		&apiKey.CreatedAt,
		&apiKey.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to find api key by prefix")
	}
	return &apiKey, nil
}

// ListByUserID returns the user's keys ordered newest first.
func (p *PostgreSQLAPIKeyRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		var apiKey apikeyDomain.APIKey
		if err := rows.Scan(
			&apiKey.ID,
			&apiKey.UserID,
			&apiKey.Name,
			&apiKey.Prefix,
			&apiKey.SecretEnc,
			&apiKey.IsActive,
			&apiKey.CreatedAt,
			&apiKey.LastUsedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}
		apiKeys = append(apiKeys, &apiKey)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}
	return apiKeys, nil
}

// Deactivate revokes the key and reports whether an active row changed.
func (p *PostgreSQLAPIKeyRepository) Deactivate(ctx context.Context, keyID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, keyID)
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
func (p *PostgreSQLAPIKeyRepository) TouchLastUsed(ctx context.Context, keyID uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`

	if _, err := querier.ExecContext(ctx, query, at, keyID); err != nil {
		return apperrors.Wrap(err, "failed to update api key last_used_at")
	}
	return nil
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}
