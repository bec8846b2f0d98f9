package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"zest/internal/auth/config"
	"zest/internal/auth/domain/model"
	"zest/internal/auth/domain/repository"
	apperrors "zest/internal/shared/errors"
	"zest/internal/shared/logger"
)

// Validation constants
const (
	minPasswordLength = 8
	// bcrypt reads at most 72 bytes of input and errors on anything longer,
	// so the ceiling is enforced here as a validation failure instead.
	maxPasswordLength = 72

	// tempPasswordLength is the size of a generated reset password.
	tempPasswordLength = 16

	// opTimeout caps every store round-trip and hash computation so a stalled
	// backend cannot exhaust the connection pool.
	opTimeout = 5 * time.Second
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*model.Session, error)
	ForgotPassword(ctx context.Context, email string) error
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo   repository.AuthRepository
	hasher repository.PasswordHasher
	tokens repository.TokenSource
	mailer repository.Mailer
	config *config.Config
	log    logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.AuthRepository,
	hasher repository.PasswordHasher,
	tokens repository.TokenSource,
	mailer repository.Mailer,
	cfg *config.Config,
	log logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		config: cfg,
		log:    log.WithComponent("auth.usecase"),
	}
}

func (uc *AuthUsecase) validateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return apperrors.NewValidationError("username must be 3-32 characters of letters, digits, '_', '.' or '-'")
	}
	return nil
}

func (uc *AuthUsecase) validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("invalid email format")
	}
	return nil
}

func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	}
	return nil
}

// Register creates a new user. It does not issue a session; the client logs
// in afterwards with the same credentials.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := uc.validateUsername(username); err != nil {
		return nil, err
	}
	if err := uc.validateEmail(email); err != nil {
		return nil, err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUser) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("%w: create user: %v", apperrors.ErrStoreUnavailable, err)
	}

	// Clear the hash before the record leaves the usecase.
	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and issues a fresh session token, replacing
// any previously issued token for the same user. The replaced token stops
// validating immediately, not at its cookie expiry.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := uc.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same answer as a wrong password so the caller cannot probe
			// which usernames exist.
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: get user: %v", apperrors.ErrStoreUnavailable, err)
	}

	if !uc.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := uc.tokens.SessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.config.SessionTTL),
	}

	if err := uc.repo.UpsertSession(ctx, session); err != nil {
		return nil, "", fmt.Errorf("%w: upsert session: %v", apperrors.ErrStoreUnavailable, err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Logout revokes the session carrying the presented token. Deletion is
// scoped to that token, so a logout racing a fresh login cannot take down
// the newer session. Unknown tokens are a no-op.
func (uc *AuthUsecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := uc.repo.DeleteSessionByToken(ctx, token); err != nil {
		return fmt.Errorf("%w: delete session: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// ValidateSession resolves a token to its live session. The lookup is
// read-only. Expired rows are rejected exactly like unknown ones; the token
// in the cookie proves nothing once the server-side expiry has passed.
func (uc *AuthUsecase) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	session, err := uc.repo.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: get session: %v", apperrors.ErrStoreUnavailable, err)
	}

	if session.Expired(time.Now().UTC()) {
		return nil, apperrors.ErrSessionNotFound
	}

	return session, nil
}

// ForgotPassword rotates the password for the account behind the email and
// mails the replacement. An unknown email yields the same success-shaped
// outcome as a known one, so the endpoint cannot be used to enumerate
// accounts; the miss is only logged.
//
// Delivery failure is reported distinctly from store failure: once the
// update has run, the old password is gone whether or not the mail went out.
func (uc *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	if err := uc.validateEmail(email); err != nil {
		return err
	}

	tempPassword, err := uc.tokens.TempPassword(tempPasswordLength)
	if err != nil {
		return fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hash, err := uc.hasher.Hash(tempPassword)
	if err != nil {
		return fmt.Errorf("failed to hash temporary password: %w", err)
	}

	rows, err := uc.repo.UpdatePasswordHash(ctx, email, hash)
	if err != nil {
		return fmt.Errorf("%w: update password hash: %v", apperrors.ErrStoreUnavailable, err)
	}
	if rows == 0 {
		uc.log.WithFields(map[string]interface{}{"operation": "forgot_password"}).
			Info("password reset requested for unknown email")
		return nil
	}

	body := fmt.Sprintf("Hello!\n\nYour new password is: %s\n\nDon't share this with anyone else.\n\nKind regards,\nZest", tempPassword)
	if err := uc.mailer.Send(ctx, email, "Forgot Password", body); err != nil {
		if errors.Is(err, apperrors.ErrDeliveryFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
	}

	return nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
