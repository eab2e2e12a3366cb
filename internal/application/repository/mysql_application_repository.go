package repository

import (
	"context"
	"database/sql"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	"github.com/allisson/jobtracker/internal/database"
	apperrors "github.com/allisson/jobtracker/internal/errors"
)

// MySQLApplicationRepository implements Application persistence for MySQL using BINARY(16) ids.
type MySQLApplicationRepository struct {
	db *sql.DB
}

// Create inserts a new application.
func (m *MySQLApplicationRepository) Create(
	ctx context.Context,
	application *applicationDomain.Application,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := application.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal application id")
	}
	userID, err := application.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO applications (` + applicationColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		application.Company,
		application.RoleTitle,
		application.Source,
		string(application.Status),
		application.JobURL,
		application.Notes,
		application.AppliedAt,
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create application")
	}
	return nil
}

// List returns a page ordered by created_at desc, id desc, plus the unpaged total.
func (m *MySQLApplicationRepository) List(
	ctx context.Context,
	filter applicationDomain.ListApplicationsFilter,
) ([]*applicationDomain.Application, int64, error) {
	querier := database.GetTx(ctx, m.db)

	var conditions []string
	var args []any
	if filter.UserID != nil {
		userID, err := filter.UserID.MarshalBinary()
		if err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to marshal user id")
		}
		conditions = append(conditions, "user_id = ?")
		args = append(args, userID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	where := whereClause(conditions)

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications` + where
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count applications")
	}

	query := `SELECT ` + applicationColumns + ` FROM applications` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := querier.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list applications")
	}
	defer func() {
		_ = rows.Close()
	}()

	applications := make([]*applicationDomain.Application, 0)
	for rows.Next() {
		var application applicationDomain.Application
		var id, userID []byte
		var status string
		if err := rows.Scan(
			&id,
			&userID,
			&application.Company,
			&application.RoleTitle,
			&application.Source,
			&status,
			&application.JobURL,
			&application.Notes,
			&application.AppliedAt,
			&application.CreatedAt,
			&application.UpdatedAt,
		); err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to scan application")
		}
		if err := application.ID.UnmarshalBinary(id); err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to unmarshal application id")
		}
		if err := application.UserID.UnmarshalBinary(userID); err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to unmarshal user id")
		}
		application.Status = applicationDomain.Status(status)
		applications = append(applications, &application)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to iterate applications")
	}
	return applications, total, nil
}

// NewMySQLApplicationRepository creates a new MySQL Application repository.
func NewMySQLApplicationRepository(db *sql.DB) *MySQLApplicationRepository {
	return &MySQLApplicationRepository{db: db}
}
