package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"zest/internal/auth/adapter/security"
	"zest/internal/auth/config"
	"zest/internal/auth/domain/model"
	"zest/internal/auth/usecase"
	apperrors "zest/internal/shared/errors"
	"zest/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// Mock repository
type mockAuthRepository struct {
	mock.Mock
}

func (m *mockAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockAuthRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthRepository) UpdatePasswordHash(ctx context.Context, email, hash string) (int64, error) {
	args := m.Called(ctx, email, hash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuthRepository) UpsertSession(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepository) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockAuthRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Mock mailer
type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	mockRepo   *mockAuthRepository
	mockMailer *mockMailer
	hasher     *security.BcryptHasher
	usecase    *usecase.AuthUsecase
	config     *config.Config
}

func (suite *AuthUsecaseTestSuite) SetupTest() {
	suite.mockRepo = &mockAuthRepository{}
	suite.mockMailer = &mockMailer{}
	// MinCost keeps the suite fast; the work factor itself is covered by the
	// hasher's own tests.
	suite.hasher = security.NewBcryptHasher(bcrypt.MinCost)
	suite.config = &config.Config{
		SessionTTL: 168 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	suite.usecase = usecase.NewAuthUsecase(
		suite.mockRepo,
		suite.hasher,
		security.NewRandTokenSource(),
		suite.mockMailer,
		suite.config,
		logger.NewLogger(),
	)
}

func (suite *AuthUsecaseTestSuite) TestRegister_Success() {
	ctx := context.Background()

	suite.mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		return user.Username == "alice" &&
			user.Email == "a@x.com" &&
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")) == nil
	})).Return(nil)

	user, err := suite.usecase.Register(ctx, usecase.RegisterRequest{
		Username: "alice",
		Email:    "A@X.com",
		Password: "password1",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice", user.Username)
	assert.Equal(suite.T(), "a@x.com", user.Email)
	assert.Empty(suite.T(), user.PasswordHash, "hash must not leave the usecase")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestRegister_DuplicateUser() {
	ctx := context.Background()

	suite.mockRepo.On("CreateUser", mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicateUser)

	_, err := suite.usecase.Register(ctx, usecase.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "password1",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicateUser)
}

func (suite *AuthUsecaseTestSuite) TestRegister_ValidationFailures() {
	ctx := context.Background()

	cases := []struct {
		name string
		req  usecase.RegisterRequest
	}{
		{"short username", usecase.RegisterRequest{Username: "ab", Email: "a@x.com", Password: "password1"}},
		{"bad email", usecase.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "password1"}},
		{"short password", usecase.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1"}},
		// bcrypt rejects input over 72 bytes, so validation must catch it first.
		{"overlong password", usecase.RegisterRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", 73)}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.usecase.Register(ctx, tc.req)

			var appErr *apperrors.AppError
			require.ErrorAs(suite.T(), err, &appErr)
			assert.Equal(suite.T(), apperrors.ErrorTypeValidation, appErr.Type)
		})
	}

	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestLogin_Success() {
	ctx := context.Background()
	hash, _ := suite.hasher.Hash("pw1secret")

	suite.mockRepo.On("GetUserByUsername", mock.Anything, "alice").
		Return(&model.User{ID: 7, Username: "alice", Email: "a@x.com", PasswordHash: hash}, nil)

	var captured *model.Session
	suite.mockRepo.On("UpsertSession", mock.Anything, mock.MatchedBy(func(s *model.Session) bool {
		captured = s
		return s.UserID == 7
	})).Return(nil)

	user, token, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Username: "alice",
		Password: "pw1secret",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), user.ID)
	assert.Empty(suite.T(), user.PasswordHash)

	// 32 bytes of entropy, hex encoded
	assert.Regexp(suite.T(), regexp.MustCompile(`^[0-9a-f]{64}$`), token)

	require.NotNil(suite.T(), captured)
	assert.Equal(suite.T(), token, captured.Token)
	assert.WithinDuration(suite.T(), captured.CreatedAt.Add(suite.config.SessionTTL), captured.ExpiresAt, time.Second)
}

func (suite *AuthUsecaseTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()

	suite.mockRepo.On("GetUserByUsername", mock.Anything, "ghost").
		Return(nil, apperrors.ErrUserNotFound)

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{Username: "ghost", Password: "whatever1"})

	// Same answer as a wrong password.
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertSession", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, _ := suite.hasher.Hash("correct-password")

	suite.mockRepo.On("GetUserByUsername", mock.Anything, "alice").
		Return(&model.User{ID: 7, Username: "alice", PasswordHash: hash}, nil)

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{Username: "alice", Password: "wrong-password"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertSession", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestLogin_CorruptedHashDenies() {
	ctx := context.Background()

	suite.mockRepo.On("GetUserByUsername", mock.Anything, "alice").
		Return(&model.User{ID: 7, Username: "alice", PasswordHash: "not-a-bcrypt-hash"}, nil)

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{Username: "alice", Password: "anything1"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

func (suite *AuthUsecaseTestSuite) TestLogin_StoreFailure() {
	ctx := context.Background()

	suite.mockRepo.On("GetUserByUsername", mock.Anything, "alice").
		Return(nil, errors.New("connection refused"))

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{Username: "alice", Password: "password1"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrStoreUnavailable)
	assert.NotErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

func (suite *AuthUsecaseTestSuite) TestValidateSession_Success() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.mockRepo.On("GetSessionByToken", mock.Anything, "tok-1").
		Return(&model.Session{Token: "tok-1", UserID: 7, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}, nil)

	session, err := suite.usecase.ValidateSession(ctx, "tok-1")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), session.UserID)
}

func (suite *AuthUsecaseTestSuite) TestValidateSession_UnknownToken() {
	ctx := context.Background()

	suite.mockRepo.On("GetSessionByToken", mock.Anything, "forged").
		Return(nil, apperrors.ErrSessionNotFound)

	_, err := suite.usecase.ValidateSession(ctx, "forged")

	assert.ErrorIs(suite.T(), err, apperrors.ErrSessionNotFound)
}

func (suite *AuthUsecaseTestSuite) TestValidateSession_Expired() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.mockRepo.On("GetSessionByToken", mock.Anything, "stale").
		Return(&model.Session{Token: "stale", UserID: 7, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}, nil)

	_, err := suite.usecase.ValidateSession(ctx, "stale")

	// An expired token is indistinguishable from an unknown one.
	assert.ErrorIs(suite.T(), err, apperrors.ErrSessionNotFound)
}

func (suite *AuthUsecaseTestSuite) TestValidateSession_EmptyToken() {
	_, err := suite.usecase.ValidateSession(context.Background(), "")

	assert.ErrorIs(suite.T(), err, apperrors.ErrSessionNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetSessionByToken", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestLogout_DeletesPresentedTokenOnly() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteSessionByToken", mock.Anything, "tok-1").Return(nil)

	err := suite.usecase.Logout(ctx, "tok-1")

	require.NoError(suite.T(), err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestLogout_WithoutTokenIsNoop() {
	err := suite.usecase.Logout(context.Background(), "")

	require.NoError(suite.T(), err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteSessionByToken", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestForgotPassword_RotatesAndMails() {
	ctx := context.Background()

	var storedHash string
	suite.mockRepo.On("UpdatePasswordHash", mock.Anything, "a@x.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(int64(1), nil)

	var mailedBody string
	suite.mockMailer.On("Send", mock.Anything, "a@x.com", "Forgot Password", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { mailedBody = args.String(3) }).
		Return(nil)

	err := suite.usecase.ForgotPassword(ctx, "A@X.com")
	require.NoError(suite.T(), err)

	// The mailed temporary password must verify against the stored hash.
	matches := regexp.MustCompile(`Your new password is: ([a-zA-Z0-9]{16})`).FindStringSubmatch(mailedBody)
	require.Len(suite.T(), matches, 2)
	assert.True(suite.T(), suite.hasher.Verify(matches[1], storedHash))
}

func (suite *AuthUsecaseTestSuite) TestForgotPassword_UnknownEmailStaysSilent() {
	ctx := context.Background()

	suite.mockRepo.On("UpdatePasswordHash", mock.Anything, "ghost@x.com", mock.AnythingOfType("string")).
		Return(int64(0), nil)

	err := suite.usecase.ForgotPassword(ctx, "ghost@x.com")

	require.NoError(suite.T(), err)
	suite.mockMailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestForgotPassword_DeliveryFailureAfterRotation() {
	ctx := context.Background()

	suite.mockRepo.On("UpdatePasswordHash", mock.Anything, "a@x.com", mock.AnythingOfType("string")).
		Return(int64(1), nil)
	suite.mockMailer.On("Send", mock.Anything, "a@x.com", "Forgot Password", mock.AnythingOfType("string")).
		Return(errors.New("smtp: connection reset"))

	err := suite.usecase.ForgotPassword(ctx, "a@x.com")

	// The password is already rotated; the caller must see a delivery
	// failure, not a store failure.
	assert.ErrorIs(suite.T(), err, apperrors.ErrDeliveryFailed)
	assert.NotErrorIs(suite.T(), err, apperrors.ErrStoreUnavailable)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestForgotPassword_InvalidEmail() {
	err := suite.usecase.ForgotPassword(context.Background(), "not-an-email")

	var appErr *apperrors.AppError
	require.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), apperrors.ErrorTypeValidation, appErr.Type)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}
