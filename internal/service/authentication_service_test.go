package service_test

import (
	"context"
	"testing"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/security"
	"book-review-api/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (bool, error) {
	args := m.Called(ctx, exec, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	args := m.Called(ctx, exec, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, uuid string, newPasswordHash string) error {
	args := m.Called(ctx, exec, uuid, newPasswordHash)
	return args.Error(0)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(email, userUUID, role string, refresh bool) (string, string, error) {
	args := m.Called(email, userUUID, role, refresh)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockJWTService) GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, error) {
	args := m.Called(user)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) ParseToken(token string) (*security.Claims, error) {
	args := m.Called(token)
	if c, ok := args.Get(0).(*security.Claims); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBlocklist
type MockBlocklist struct {
	mock.Mock
}

func (m *MockBlocklist) AddJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *MockBlocklist) Contains(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlocklist) ConsumeLink(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, fingerprint, ttl)
	return args.Bool(0), args.Error(1)
}

// MockMailQueue
type MockMailQueue struct {
	mock.Mock
}

func (m *MockMailQueue) Enqueue(ctx context.Context, task *model.MailTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// MockLinkCodec
type MockLinkCodec struct {
	mock.Mock
}

func (m *MockLinkCodec) Encode(payload map[string]string) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

func (m *MockLinkCodec) Decode(token string, maxAge time.Duration) (map[string]string, error) {
	args := m.Called(token, maxAge)
	if p, ok := args.Get(0).(map[string]string); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// ===== HELPERS =====

type authMocks struct {
	userRepo    *MockUserRepository
	jwtService  *MockJWTService
	blocklist   *MockBlocklist
	mailQueue   *MockMailQueue
	verifyCodec *MockLinkCodec
	resetCodec  *MockLinkCodec
}

func newTestAuthService() (*service.AuthenticationService, *authMocks) {
	m := &authMocks{
		userRepo:    new(MockUserRepository),
		jwtService:  new(MockJWTService),
		blocklist:   new(MockBlocklist),
		mailQueue:   new(MockMailQueue),
		verifyCodec: new(MockLinkCodec),
		resetCodec:  new(MockLinkCodec),
	}

	svc := service.NewAuthenticationService(
		m.userRepo,
		m.jwtService,
		m.blocklist,
		m.mailQueue,
		m.verifyCodec,
		m.resetCodec,
		&config.AppConfig{
			Domain: "localhost:8080",
			JWT: config.JWTConfig{
				SecretKey:  "secret",
				LinkMaxAge: "1h",
			},
		},
	)

	return svc, m
}

func dbContext() context.Context {
	return config.WithDatabase(context.Background(), &config.Database{})
}

// ===== LOGIN =====

// 1. Нет БД в контексте
func TestLogin_NoDBInContext(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "test@example.com", "pass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database connection")
}

// 2. Неизвестный email даёт ту же ошибку, что и неверный пароль
func TestLogin_UnknownEmail(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.userRepo.On("FindByEmail", ctx, mock.Anything, "test@example.com").
		Return(nil, model.ErrUserNotFound)

	_, _, err := svc.Login(ctx, "test@example.com", "pass")

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	m.userRepo.AssertExpectations(t)
}

// 3. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", PasswordHash: hash}

	m.userRepo.On("FindByEmail", ctx, mock.Anything, "test@example.com").
		Return(user, nil)

	_, _, err := svc.Login(ctx, "test@example.com", "badpass")

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	m.userRepo.AssertExpectations(t)
}

// 4. Успешный логин
func TestLogin_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Email: "test@example.com", PasswordHash: hash}
	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}

	m.userRepo.On("FindByEmail", ctx, mock.Anything, "test@example.com").
		Return(user, nil)
	m.jwtService.On("GenerateAccessRefreshTokens", user).
		Return(tokens, nil)

	gotTokens, gotUser, err := svc.Login(ctx, "test@example.com", "goodpass")

	assert.NoError(t, err)
	assert.Equal(t, tokens, gotTokens)
	assert.Equal(t, user, gotUser)
	m.userRepo.AssertExpectations(t)
	m.jwtService.AssertExpectations(t)
}

// ===== REFRESH =====

func TestRefreshAccessToken_ExpiredRefresh(t *testing.T) {
	svc, _ := newTestAuthService()

	claims := &security.Claims{
		Email:    "test@example.com",
		UserUUID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}

	_, err := svc.RefreshAccessToken(context.Background(), claims)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	svc, m := newTestAuthService()

	claims := &security.Claims{
		Email:    "test@example.com",
		UserUUID: "u1",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	m.jwtService.On("GenerateToken", "test@example.com", "u1", "user", false).
		Return("new-access", "jti-1", nil)

	token, err := svc.RefreshAccessToken(context.Background(), claims)

	assert.NoError(t, err)
	assert.Equal(t, "new-access", token)
	m.jwtService.AssertExpectations(t)
}

// ===== LOGOUT =====

func TestLogout_RevokesJTI(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.blocklist.On("AddJTI", ctx, "jti-1").Return(nil)

	assert.NoError(t, svc.Logout(ctx, "jti-1"))
	m.blocklist.AssertExpectations(t)
}

func TestLogout_StoreUnavailable(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.blocklist.On("AddJTI", ctx, "jti-1").Return(model.ErrStoreUnavailable)

	err := svc.Logout(ctx, "jti-1")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

// ===== SIGNUP =====

func TestSignup_ExistingEmail(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.userRepo.On("ExistsByEmail", ctx, mock.Anything, "test@example.com").
		Return(true, nil)

	_, err := svc.Signup(ctx, &model.User{Email: "test@example.com"}, "pass")

	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	m.userRepo.AssertExpectations(t)
}

func TestSignup_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.userRepo.On("ExistsByEmail", ctx, mock.Anything, "test@example.com").
		Return(false, nil)

	var saved *model.User
	m.userRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).(*model.User)
		}).
		Return(&model.User{UUID: "u1", Email: "test@example.com"}, nil)

	m.verifyCodec.On("Encode", map[string]string{"email": "test@example.com"}).
		Return("link-token", nil)
	m.mailQueue.On("Enqueue", ctx, mock.Anything).Return(nil)

	created, err := svc.Signup(ctx, &model.User{Email: "test@example.com", Username: "reader"}, "goodpass")

	require.NoError(t, err)
	assert.Equal(t, "u1", created.UUID)

	// аккаунт создаётся неподтверждённым, с ролью user и bcrypt-хэшем
	require.NotNil(t, saved)
	assert.Equal(t, "user", saved.Role)
	assert.False(t, saved.IsVerified)
	assert.NotEmpty(t, saved.UUID)
	assert.NotEqual(t, "goodpass", saved.PasswordHash)
	assert.True(t, security.CheckPassword("goodpass", saved.PasswordHash))

	// письмо содержит ссылку подтверждения
	task := m.mailQueue.Calls[0].Arguments.Get(1).(*model.MailTask)
	assert.Equal(t, []string{"test@example.com"}, task.Recipients)
	assert.Contains(t, task.Body, "/api/auth/verify/link-token")

	m.userRepo.AssertExpectations(t)
	m.verifyCodec.AssertExpectations(t)
	m.mailQueue.AssertExpectations(t)
}

// Регистрация не падает, если очередь писем недоступна
func TestSignup_MailQueueDown(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.userRepo.On("ExistsByEmail", ctx, mock.Anything, "test@example.com").
		Return(false, nil)
	m.userRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
		Return(&model.User{UUID: "u1", Email: "test@example.com"}, nil)
	m.verifyCodec.On("Encode", mock.Anything).Return("link-token", nil)
	m.mailQueue.On("Enqueue", ctx, mock.Anything).Return(model.ErrStoreUnavailable)

	created, err := svc.Signup(ctx, &model.User{Email: "test@example.com"}, "pass")

	assert.NoError(t, err)
	assert.Equal(t, "u1", created.UUID)
}

// ===== VERIFY EMAIL =====

func TestVerifyEmail_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.verifyCodec.On("Decode", "token", time.Hour).
		Return(map[string]string{"email": "test@example.com"}, nil)
	m.blocklist.On("ConsumeLink", ctx, mock.Anything, time.Hour).Return(true, nil)
	m.userRepo.On("FindByEmail", ctx, mock.Anything, "test@example.com").
		Return(&model.User{UUID: "u1", Email: "test@example.com"}, nil)
	m.userRepo.On("MarkVerified", ctx, mock.Anything, "u1").Return(nil)

	assert.NoError(t, svc.VerifyEmail(ctx, "token"))
	m.userRepo.AssertExpectations(t)
	m.blocklist.AssertExpectations(t)
}

func TestVerifyEmail_ExpiredLink(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.verifyCodec.On("Decode", "token", time.Hour).
		Return(nil, model.ErrTokenExpired)

	err := svc.VerifyEmail(ctx, "token")
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

// Повторный переход по уже использованной ссылке отклоняется
func TestVerifyEmail_LinkReplay(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.verifyCodec.On("Decode", "token", time.Hour).
		Return(map[string]string{"email": "test@example.com"}, nil)
	m.blocklist.On("ConsumeLink", ctx, mock.Anything, time.Hour).Return(false, nil)

	err := svc.VerifyEmail(ctx, "token")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
	m.userRepo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyEmail_EmptyPayload(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.verifyCodec.On("Decode", "token", time.Hour).
		Return(map[string]string{}, nil)

	err := svc.VerifyEmail(ctx, "token")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

// ===== PASSWORD RESET =====

func TestRequestPasswordReset_EnqueuesMail(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := context.Background()

	m.resetCodec.On("Encode", map[string]string{"email": "test@example.com"}).
		Return("reset-token", nil)
	m.mailQueue.On("Enqueue", ctx, mock.Anything).Return(nil)

	assert.NoError(t, svc.RequestPasswordReset(ctx, "test@example.com"))

	task := m.mailQueue.Calls[0].Arguments.Get(1).(*model.MailTask)
	assert.Contains(t, task.Body, "/api/auth/password-reset/reset-token")
	m.resetCodec.AssertExpectations(t)
	m.mailQueue.AssertExpectations(t)
}

func TestConfirmPasswordReset_Success(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.resetCodec.On("Decode", "token", time.Hour).
		Return(map[string]string{"email": "test@example.com"}, nil)
	m.blocklist.On("ConsumeLink", ctx, mock.Anything, time.Hour).Return(true, nil)
	m.userRepo.On("FindByEmail", ctx, mock.Anything, "test@example.com").
		Return(&model.User{UUID: "u1", Email: "test@example.com"}, nil)

	var newHash string
	m.userRepo.On("UpdatePassword", ctx, mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) {
			newHash = args.String(3)
		}).
		Return(nil)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, "token", "newpass"))
	assert.True(t, security.CheckPassword("newpass", newHash))
	m.userRepo.AssertExpectations(t)
}

func TestConfirmPasswordReset_LinkReplay(t *testing.T) {
	svc, m := newTestAuthService()
	ctx := dbContext()

	m.resetCodec.On("Decode", "token", time.Hour).
		Return(map[string]string{"email": "test@example.com"}, nil)
	m.blocklist.On("ConsumeLink", ctx, mock.Anything, time.Hour).Return(false, nil)

	err := svc.ConfirmPasswordReset(ctx, "token", "newpass")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
	m.userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
