package repository

import (
	"context"

	"zest/internal/auth/domain/model"
)

// AuthRepository defines the interface for authentication data operations.
// All operations are atomic at the row level; UpsertSession in particular is
// a single conditional write keyed by user id, so two concurrent logins for
// the same user leave exactly one winning row.
type AuthRepository interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) (int64, error)

	// Session operations
	UpsertSession(ctx context.Context, session *model.Session) error
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
}
