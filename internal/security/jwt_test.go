package security_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/repository"
	"book-review-api/internal/security"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== HELPERS =====

func newTestJWTService() *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		SecretKey:       "secret",
		AccessTokenTTL:  "1h",
		RefreshTokenTTL: "48h",
	})
}

func testUser() *model.User {
	return &model.User{
		UUID:  "u1",
		Email: "test@example.com",
		Role:  "user",
	}
}

// newTestBlocklist : miniredis вместо настоящего Redis.
// Возвращает и сам сервер, чтобы тест мог его остановить.
func newTestBlocklist(t *testing.T) (*repository.BlocklistRepository, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := &config.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: srv.Addr()}),
	}
	return repository.NewBlocklistRepository(client, time.Hour), srv
}

// ===== JWT SERVICE =====

func TestGenerateToken_ParseRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, jti, err := svc.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "u1", claims.UserUUID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.False(t, claims.Refresh)
}

func TestGenerateAccessRefreshTokens_KindFlags(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)

	access, err := svc.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.False(t, access.Refresh)

	refresh, err := svc.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refresh.Refresh)

	// jti у каждого токена свой, иначе logout access отозвал бы и refresh
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestParseToken_TamperedToken(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)

	_, err = svc.ParseToken(token + "x")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestParseToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := security.NewJWTService(&config.JWTConfig{
		SecretKey:       "другой секрет",
		AccessTokenTTL:  "1h",
		RefreshTokenTTL: "48h",
	})

	token, _, err := svc.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestParseToken_ExpiredTokenStillParses(t *testing.T) {
	// просроченный, но корректно подписанный токен должен разбираться:
	// middleware отличает "просрочен" от "подделан" именно по этому
	svc := security.NewJWTService(&config.JWTConfig{
		SecretKey:       "secret",
		AccessTokenTTL:  "-1h",
		RefreshTokenTTL: "48h",
	})

	token, _, err := svc.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, time.Now().After(claims.ExpiresAt.Time))
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ParseToken("не jwt вовсе")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

// ===== MIDDLEWARE =====

func protectedEndpoint(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := security.GetClaimsFromContext(r.Context())
		require.NoError(t, err)
		assert.NotEmpty(t, claims.UserUUID)
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(guard func(http.Handler) http.Handler, next http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	svc := newTestJWTService()
	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, svc, blocklist)

	rec := doRequest(guard, protectedEndpoint(t), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(guard, protectedEndpoint(t), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	svc := newTestJWTService()
	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, svc, blocklist)

	rec := doRequest(guard, protectedEndpoint(t), "Bearer мусор")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrTokenInvalid.Error())
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	expired := security.NewJWTService(&config.JWTConfig{
		SecretKey:       "secret",
		AccessTokenTTL:  "-1h",
		RefreshTokenTTL: "48h",
	})
	token, _, err := expired.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)

	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, newTestJWTService(), blocklist)

	rec := doRequest(guard, protectedEndpoint(t), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrTokenExpired.Error())
}

func TestJWTMiddleware_RefreshTokenOnAccessEndpoint(t *testing.T) {
	svc := newTestJWTService()
	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, svc, blocklist)

	pair, err := svc.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)

	rec := doRequest(guard, protectedEndpoint(t), "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrAccessTokenRequired.Error())
}

func TestJWTMiddleware_AccessTokenOnRefreshEndpoint(t *testing.T) {
	svc := newTestJWTService()
	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.RefreshToken, svc, blocklist)

	pair, err := svc.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)

	rec := doRequest(guard, protectedEndpoint(t), "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrRefreshTokenRequired.Error())
}

func TestJWTMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, svc, blocklist)

	token, jti, err := svc.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)

	rec := doRequest(guard, protectedEndpoint(t), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// после logout тот же токен отклоняется как невалидный
	require.NoError(t, blocklist.AddJTI(context.Background(), jti))

	rec = doRequest(guard, protectedEndpoint(t), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrTokenInvalid.Error())
}

func TestJWTMiddleware_StoreUnavailable(t *testing.T) {
	svc := newTestJWTService()
	blocklist, srv := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, svc, blocklist)

	token, _, err := svc.GenerateToken("test@example.com", "u1", "user", false)
	require.NoError(t, err)

	// Redis недоступен: валидный токен всё равно отклоняется
	srv.Close()

	rec := doRequest(guard, protectedEndpoint(t), "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrStoreUnavailable.Error())
}

func TestJWTMiddleware_ValidTokenPassesClaims(t *testing.T) {
	svc := newTestJWTService()
	blocklist, _ := newTestBlocklist(t)
	guard := security.JWTMiddleware(security.AccessToken, svc, blocklist)

	pair, err := svc.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)

	var got *security.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = security.GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := doRequest(guard, next, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserUUID)
	assert.Equal(t, "test@example.com", got.Email)
}
