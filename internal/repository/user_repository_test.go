package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
)

var userRowColumns = []string{"id", "name", "email", "username", "password_hash", "role", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	user := models.User{
		ID:           "u1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: []byte("digest"),
		Role:         models.UserRoleUser,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "Alice", "alice@example.com", (*string)(nil), []byte("digest"), models.UserRoleUser).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u1", "Alice", "alice@example.com", (*string)(nil), []byte("digest"), models.UserRoleUser, now, now))

	created, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "u1", created.ID)
	assert.Nil(t, created.Username)
	assert.Equal(t, now, created.CreatedAt)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), models.User{ID: "u2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_GetPrincipal(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT id, name, email, username, role FROM users WHERE id = \\$1").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "username", "role"}).
			AddRow("u1", "Alice", "alice@example.com", strPtr("alice"), models.UserRoleAdmin))

	p, err := repo.GetPrincipal(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", *p.Username)
	assert.Equal(t, models.UserRoleAdmin, p.Role)
}

func TestUserRepository_GetPrincipalMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPrincipal(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_FindByEmailStoreFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnError(boom)

	_, err := repo.FindByEmail(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_UpdateProfileUsernameTaken(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("UPDATE users SET name").
		WithArgs("u1", "Alice", "bob").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.UpdateProfile(context.Background(), "u1", "Alice", "bob")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("u1", []byte("new-digest")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("ghost", []byte("new-digest")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdatePassword(context.Background(), "u1", []byte("new-digest")))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "ghost", []byte("new-digest")), ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM users").
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1"), ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM users ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u1", "Alice", "alice@example.com", strPtr("alice"), []byte("d1"), models.UserRoleUser, now, now).
			AddRow("u2", "Bob", "bob@example.com", (*string)(nil), []byte("d2"), models.UserRoleAdmin, now, now))

	users, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Bob", users[1].Name)
}
