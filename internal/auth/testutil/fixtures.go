package testutil

import (
	"context"
	"sync"
	"time"

	"zest/internal/auth/domain/model"
	"zest/internal/auth/domain/repository"
	apperrors "zest/internal/shared/errors"

	"golang.org/x/crypto/bcrypt"
)

// UserFixture provides test data for the User model.
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance.
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// ValidUser returns a valid user for testing.
func (f *UserFixture) ValidUser() *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	return &model.User{
		ID:           1,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}
}

// UserWithPassword returns a user carrying a hash of the given password.
func (f *UserFixture) UserWithPassword(username, email, password string) *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}
}

// SessionFixture provides test data for the Session model.
type SessionFixture struct{}

// NewSessionFixture creates a new SessionFixture instance.
func NewSessionFixture() *SessionFixture {
	return &SessionFixture{}
}

// SessionForUser returns a live session owned by the given user.
func (f *SessionFixture) SessionForUser(userID int64) *model.Session {
	now := time.Now().UTC()
	return &model.Session{
		Token:     "session-token-for-test",
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

// ExpiredSession returns a session whose server-side expiry has passed.
func (f *SessionFixture) ExpiredSession(userID int64) *model.Session {
	now := time.Now().UTC()
	return &model.Session{
		Token:     "expired-session-token",
		UserID:    userID,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-1 * time.Hour),
	}
}

// MemoryAuthRepository is an in-memory repository.AuthRepository with the
// same observable behavior as the Postgres adapter: unique usernames and
// emails, one session row per user, token-scoped deletes. It lets full-stack
// tests run without a database.
type MemoryAuthRepository struct {
	mu             sync.Mutex
	nextID         int64
	usersByName    map[string]*model.User
	usersByEmail   map[string]*model.User
	sessionsByUser map[int64]*model.Session
}

// NewMemoryAuthRepository creates an empty in-memory repository.
func NewMemoryAuthRepository() *MemoryAuthRepository {
	return &MemoryAuthRepository{
		nextID:         1,
		usersByName:    make(map[string]*model.User),
		usersByEmail:   make(map[string]*model.User),
		sessionsByUser: make(map[int64]*model.Session),
	}
}

func (r *MemoryAuthRepository) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.usersByName[user.Username]; ok {
		return apperrors.ErrDuplicateUser
	}
	if _, ok := r.usersByEmail[user.Email]; ok {
		return apperrors.ErrDuplicateUser
	}

	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.usersByName[user.Username] = &stored
	r.usersByEmail[user.Email] = &stored
	return nil
}

func (r *MemoryAuthRepository) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.usersByName[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryAuthRepository) UpdatePasswordHash(_ context.Context, email, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.usersByEmail[email]
	if !ok {
		return 0, nil
	}
	user.PasswordHash = hash
	return 1, nil
}

func (r *MemoryAuthRepository) UpsertSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Keyed by user id, so a second login replaces the first session.
	stored := *session
	r.sessionsByUser[session.UserID] = &stored
	return nil
}

func (r *MemoryAuthRepository) GetSessionByToken(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessionsByUser {
		if session.Token == token {
			copied := *session
			return &copied, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (r *MemoryAuthRepository) DeleteSessionByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, session := range r.sessionsByUser {
		if session.Token == token {
			delete(r.sessionsByUser, userID)
			return nil
		}
	}
	return nil
}

// SessionCount reports how many session rows exist.
func (r *MemoryAuthRepository) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessionsByUser)
}

var _ repository.AuthRepository = (*MemoryAuthRepository)(nil)

// RecordingMailer captures outgoing mail instead of delivering it. When Fail
// is set every send reports a delivery failure.
type RecordingMailer struct {
	mu   sync.Mutex
	Fail bool
	Sent []RecordedMail
}

// RecordedMail is one captured message.
type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *RecordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return apperrors.ErrDeliveryFailed
	}
	m.Sent = append(m.Sent, RecordedMail{To: to, Subject: subject, Body: body})
	return nil
}

// LastMail returns the most recently captured message.
func (m *RecordingMailer) LastMail() (RecordedMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return RecordedMail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

var _ repository.Mailer = (*RecordingMailer)(nil)

// Common invalid inputs for validation testing.
var (
	InvalidEmails = []string{
		"",
		"invalid-email",
		"@example.com",
		"test@",
		"test space@example.com",
	}

	InvalidPasswords = []string{
		"",
		"123",
		"1234567",
		"short",
	}
)
