package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"zest/internal/auth/domain/model"
	apperrors "zest/internal/shared/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresAuthRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresAuthRepository(db), mock
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.com", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	user := &model.User{Username: "alice", Email: "a@x.com", PasswordHash: "hashed"}
	err := repo.CreateUser(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateMapsToSentinel(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.com", "hashed").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.CreateUser(context.Background(), &model.User{
		Username: "alice", Email: "a@x.com", PasswordHash: "hashed",
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.com", "hashed").
		WillReturnError(errors.New("connection refused"))

	err := repo.CreateUser(context.Background(), &model.User{
		Username: "alice", Email: "a@x.com", PasswordHash: "hashed",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicateUser)
}

func TestGetUserByUsername_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, username, email, password, created_at\s+FROM users`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "created_at"}).
			AddRow(int64(7), "alice", "a@x.com", "hashed", created))

	user, err := repo.GetUserByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, username, email, password, created_at\s+FROM users`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdatePasswordHash_ReportsRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET password`).
		WithArgs("newhash", "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.UpdatePasswordHash(context.Background(), "a@x.com", "newhash")

	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestUpdatePasswordHash_UnknownEmailZeroRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET password`).
		WithArgs("newhash", "ghost@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.UpdatePasswordHash(context.Background(), "ghost@x.com", "newhash")

	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestUpsertSession_InsertsWithConflictClause(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO sessions .+ ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("tok-1", int64(7), now, now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertSession(context.Background(), &model.Session{
		Token:     "tok-1",
		UserID:    7,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSession_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO sessions`).
		WillReturnError(errors.New("connection refused"))

	err := repo.UpsertSession(context.Background(), &model.Session{
		Token: "tok-1", UserID: 7, CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	})

	assert.Error(t, err)
}

func TestGetSessionByToken_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT token, user_id, created_at, expires_at\s+FROM sessions`).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "created_at", "expires_at"}).
			AddRow("tok-1", int64(7), now, now.Add(time.Hour)))

	session, err := repo.GetSessionByToken(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)
	assert.Equal(t, "tok-1", session.Token)
}

func TestGetSessionByToken_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT token, user_id, created_at, expires_at\s+FROM sessions`).
		WithArgs("forged").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSessionByToken(context.Background(), "forged")

	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestDeleteSessionByToken_IdempotentOnMiss(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE token`).
		WithArgs("already-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSessionByToken(context.Background(), "already-gone")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSessionByToken_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE token`).
		WithArgs("tok-1").
		WillReturnError(errors.New("connection refused"))

	err := repo.DeleteSessionByToken(context.Background(), "tok-1")

	assert.Error(t, err)
}
