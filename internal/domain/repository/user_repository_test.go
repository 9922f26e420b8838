package repository

import (
	"context"
	"errors"
	"testing"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "name", "email", "password_hash", "role", "status",
	"last_login", "reset_token_hash", "reset_token_expiry", "created_at", "updated_at"}

func TestPgUserRepository_FindByLogin(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(q("WHERE lower(u.email) = lower($1) OR u.username = $1")).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			1, "admin", "Administrator", "admin@example.com", "hash", "admin", "active",
			nil, nil, nil, fixedTime, fixedTime,
		))

	u, err := repo.FindByLogin(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	require.NotNil(t, u.Username)
	assert.Equal(t, "admin", *u.Username)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, model.UserActive, u.Status)
	assert.Nil(t, u.LastLogin)
	assert.Nil(t, u.ResetTokenHash)
}

func TestPgUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(q("WHERE u.id = $1")).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPgUserRepository_Create_Conflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	username := "admin"
	err := repo.Create(context.Background(), &model.User{
		Username: &username, Name: "A", Email: "a@example.com", PasswordHash: "h",
		Role: model.RoleAdmin, Status: model.UserActive,
	})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestPgUserRepository_List_FiltersAndSort(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id WHERE (u.name ILIKE $1 OR u.email ILIKE $2) AND r.name = $3 AND u.status = $4")).
		WithArgs("%rao%", "%rao%", "therapist", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(q("ORDER BY u.name ASC, u.id ASC LIMIT $5 OFFSET $6")).
		WithArgs("%rao%", "%rao%", "therapist", "active", 5, 5).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			7, nil, "Dr Rao", "rao@example.com", "hash", "therapist", "active",
			fixedTime, nil, nil, fixedTime, fixedTime,
		))

	users, total, err := repo.List(context.Background(), model.UserFilter{
		Search: "rao", Role: model.RoleTherapist, Status: model.UserActive,
		SortBy: "name", SortOrder: "asc", Page: model.NewPagination(2, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].Username)
	require.NotNil(t, users[0].LastLogin)
}

func TestPgUserRepository_List_RejectsUnknownSortColumn(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(q("ORDER BY u.created_at DESC, u.id DESC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	users, total, err := repo.List(context.Background(), model.UserFilter{
		SortBy: "password_hash; DROP TABLE users", Page: model.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
}

func TestPgUserRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectExec(q("UPDATE users SET status = $1")).
		WithArgs("inactive", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 3, model.UserInactive)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPgUserRepository_SetAndClearResetToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectExec(q("UPDATE users SET reset_token_hash = $1, reset_token_expiry = $2")).
		WithArgs("digest", fixedTime, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("WHERE id = $1 AND reset_token_hash = $2")).
		WithArgs(int64(1), "digest").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetResetToken(context.Background(), 1, "digest", fixedTime))
	require.NoError(t, repo.ClearResetToken(context.Background(), 1, "digest"))
}

func TestPgUserRepository_ResetPassword_Commits(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT id FROM users WHERE reset_token_hash = $1 AND reset_token_expiry > $2 FOR UPDATE")).
		WithArgs("digest", fixedTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec(q("SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL")).
		WithArgs("newhash", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.ResetPassword(context.Background(), "digest", fixedTime, "newhash")
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestPgUserRepository_ResetPassword_NoMatchRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs("digest", fixedTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.ResetPassword(context.Background(), "digest", fixedTime, "newhash")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPgUserRepository_ResetPassword_UpdateFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec(q("SET password_hash")).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.ResetPassword(context.Background(), "digest", fixedTime, "newhash")
	assert.ErrorIs(t, err, boom)
}

func TestPgUserRepository_Counts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(q("WHERE r.name <> $1")).WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(q("WHERE r.name = $1")).WithArgs("therapist").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountNonAdmin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = repo.CountByRole(context.Background(), model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestPgRoleRepository_EnsureRoles(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgRoleRepository(db)

	for _, role := range model.AllRoles {
		mock.ExpectExec(q("INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING")).
			WithArgs(string(role)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	require.NoError(t, repo.EnsureRoles(context.Background(), model.AllRoles))
}
