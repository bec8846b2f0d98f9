package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zest/internal/auth/domain/model"
	"zest/internal/auth/domain/repository"
	apperrors "zest/internal/shared/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// DBTX is the subset of database/sql used by the repository. Both *sql.DB
// and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresAuthRepository persists users and sessions in a single relational
// store, which is the sole source of truth for session state.
type PostgresAuthRepository struct {
	db DBTX
}

// NewPostgresAuthRepository creates a repository over the given handle.
func NewPostgresAuthRepository(db DBTX) *PostgresAuthRepository {
	return &PostgresAuthRepository{db: db}
}

// CreateUser inserts a new user and fills in its assigned id.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetUserByUsername fetches a user record including its password hash.
func (r *PostgresAuthRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, email, password, created_at
	          FROM users
	          WHERE username = $1`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return user, nil
}

// UpdatePasswordHash replaces the password hash for the user owning the
// given email and reports how many rows changed. Zero rows means the email
// is unknown; the caller decides whether to surface that.
func (r *PostgresAuthRepository) UpdatePasswordHash(ctx context.Context, email, hash string) (int64, error) {
	query := `UPDATE users SET password = $1 WHERE email = $2`

	res, err := r.db.ExecContext(ctx, query, hash, email)
	if err != nil {
		return 0, fmt.Errorf("update password hash: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update password hash: %w", err)
	}
	return rows, nil
}

// UpsertSession inserts the session or, when the user already holds one,
// replaces it in the same statement. The conflict target is the user id, so
// a user never accumulates tokens and two racing logins leave one winner.
func (r *PostgresAuthRepository) UpsertSession(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO sessions (token, user_id, created_at, expires_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id) DO UPDATE
	          SET token = EXCLUDED.token,
	              created_at = EXCLUDED.created_at,
	              expires_at = EXCLUDED.expires_at`

	_, err := r.db.ExecContext(ctx, query,
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// GetSessionByToken resolves a token to its session row. The lookup is
// read-only; validation never mutates session state.
func (r *PostgresAuthRepository) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	query := `SELECT token, user_id, created_at, expires_at
	          FROM sessions
	          WHERE token = $1`

	session := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session by token: %w", err)
	}

	return session, nil
}

// DeleteSessionByToken removes the session carrying the given token.
// Deleting by token rather than by user keeps a logout from destroying a
// newer session issued by a concurrent login. Absent rows are not an error.
func (r *PostgresAuthRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete session by token: %w", err)
	}
	return nil
}

var _ repository.AuthRepository = (*PostgresAuthRepository)(nil)
