// Package repository implements job application persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	"github.com/allisson/jobtracker/internal/database"
	apperrors "github.com/allisson/jobtracker/internal/errors"
)

const applicationColumns = `id, user_id, company, role_title, source, status, job_url, notes, applied_at, created_at, updated_at`

// PostgreSQLApplicationRepository implements Application persistence for PostgreSQL.
type PostgreSQLApplicationRepository struct {
	db *sql.DB
}

// Create inserts a new application.
func (p *PostgreSQLApplicationRepository) Create(
	ctx context.Context,
	application *applicationDomain.Application,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO applications (` + applicationColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		application.ID,
		application.UserID,
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
func (p *PostgreSQLApplicationRepository) List(
	ctx context.Context,
	filter applicationDomain.ListApplicationsFilter,
) ([]*applicationDomain.Application, int64, error) {
	querier := database.GetTx(ctx, p.db)

	var conditions []string
	var args []any
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	where := whereClause(conditions)

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications` + where
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count applications")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM applications%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, where, len(args)+1, len(args)+2,
	)
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
		var status string
		if err := rows.Scan(
			&application.ID,
			&application.UserID,
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
		application.Status = applicationDomain.Status(status)
		applications = append(applications, &application)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to iterate applications")
	}
	return applications, total, nil
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// NewPostgreSQLApplicationRepository creates a new PostgreSQL Application repository.
func NewPostgreSQLApplicationRepository(db *sql.DB) *PostgreSQLApplicationRepository {
	return &PostgreSQLApplicationRepository{db: db}
}
