package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newUser() *userDomain.User {
	name := "Jane Doe"
	now := time.Now().UTC()
	return &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     "jane@example.com",
		FullName:  &name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var userColumns = []string{"id", "email", "full_name", "created_at", "updated_at"}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO users (id, email, full_name, created_at, updated_at)")

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newUser()

		mock.ExpectExec(insert).
			WithArgs(user.ID, user.Email, user.FullName, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, user))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(insert).WillReturnError(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, repo.Create(ctx, newUser()), userDomain.ErrUserAlreadyExists)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(insert).WillReturnError(errors.New("connection reset"))

		err := repo.Create(ctx, newUser())
		assert.ErrorContains(t, err, "failed to create user")
		assert.NotErrorIs(t, err, userDomain.ErrUserAlreadyExists)
	})
}

func TestPostgreSQLUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM users WHERE id = $1")

	t.Run("Found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLUserRepository(db)
		expected := newUser()

		mock.ExpectQuery(query).
			WithArgs(expected.ID).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				expected.ID.String(), expected.Email, *expected.FullName, expected.CreatedAt, expected.UpdatedAt,
			))

		user, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, user.ID)
		assert.Equal(t, expected.Email, user.Email)
		require.NotNil(t, user.FullName)
		assert.Equal(t, "Jane Doe", *user.FullName)
	})

	t.Run("NullFullName", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLUserRepository(db)
		expected := newUser()

		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				expected.ID.String(), expected.Email, nil, expected.CreatedAt, expected.UpdatedAt,
			))

		user, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Nil(t, user.FullName)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestPostgreSQLUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewPostgreSQLUserRepository(db)
	expected := newUser()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			expected.ID.String(), expected.Email, nil, expected.CreatedAt, expected.UpdatedAt,
		))

	user, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, expected.ID, user.ID)
}

func TestMySQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO users (id, email, full_name, created_at, updated_at)")

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLUserRepository(db)
		user := newUser()
		id, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(insert).
			WithArgs(id, user.Email, user.FullName, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, user))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(insert).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		assert.ErrorIs(t, repo.Create(ctx, newUser()), userDomain.ErrUserAlreadyExists)
	})
}

func TestMySQLUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM users WHERE id = ?")

	t.Run("Found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLUserRepository(db)
		expected := newUser()
		id, err := expected.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectQuery(query).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				id, expected.Email, nil, expected.CreatedAt, expected.UpdatedAt,
			))

		user, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, user.ID)
		assert.Nil(t, user.FullName)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
	})
}
