package security

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/repository"
	"book-review-api/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserContextKey        contextKey = "user"
	CurrentUserContextKey contextKey = "current_user"
)

// TokenKind : вид токена, который требует защищённый эндпоинт.
// Один guard на оба вида, поведение выбирается значением, а не наследованием.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

// Claims : данные личности, зашитые в токен при выпуске.
// Снимок на момент выпуска, до следующего выпуска не перечитывается.
type Claims struct {
	Email    string `json:"email"`
	UserUUID string `json:"user_uuid"`
	Role     string `json:"role,omitempty"`
	Refresh  bool   `json:"refresh"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// GenerateToken : выпускает подписанный токен с уникальным jti.
// Возвращает строку токена и его jti (jti нужен только для логов,
// клиенту уходит строка).
func (service *JWTService) GenerateToken(email, userUUID, role string, refresh bool) (string, string, error) {
	ttlStr := service.AccessTokenTTL
	if refresh {
		ttlStr = service.RefreshTokenTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return "", "", util.LogError("ошибка парсинга TTL токена", err)
	}

	jti := uuid.New().String()
	claims := Claims{
		Email:    email,
		UserUUID: userUUID,
		Role:     role,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "book-review-api",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", util.LogError("ошибка подписи токена", err)
	}

	return signed, jti, nil
}

// GenerateAccessRefreshTokens : выпускает пару токенов для пользователя
func (service *JWTService) GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, error) {
	accessToken, _, err := service.GenerateToken(user.Email, user.UUID, user.Role, false)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	refreshToken, _, err := service.GenerateToken(user.Email, user.UUID, user.Role, true)
	if err != nil {
		return nil, util.LogError("ошибка генерации refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ParseToken : проверяет только подпись и структуру токена.
// Истечение срока здесь намеренно не проверяется: просроченный, но корректно
// подписанный токен должен давать отдельную ошибку ErrTokenExpired,
// а не сливаться с ErrTokenInvalid. Срок проверяет middleware.
func (service *JWTService) ParseToken(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	jwtToken, err := parser.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	})

	if err != nil || jwtToken.Valid == false {
		log.Printf("невалидный токен: %v", err)
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}

// JWTMiddleware : guard защищённых эндпоинтов.
// Порядок проверок фиксированный: заголовок, подпись, срок, вид токена,
// отзыв. Подпись проверяется раньше любых полей токена, срок — раньше
// похода в Redis, чтобы просроченный токен не тратил round-trip.
func JWTMiddleware(kind TokenKind, jwtService *JWTService, blocklist *repository.BlocklistRepository) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(kind, jwtService, blocklist, next))
	}
}

func handleAuthentication(kind TokenKind, jwtService *JWTService, blocklist *repository.BlocklistRepository, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, model.ErrMissingCredentials.Error(), http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ParseToken(token)
		if err != nil {
			util.HandleError(writer, model.ErrTokenInvalid.Error(), http.StatusUnauthorized)
			return
		}

		if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
			util.HandleError(writer, model.ErrTokenExpired.Error(), http.StatusUnauthorized)
			return
		}

		if kind == AccessToken && claims.Refresh {
			util.HandleError(writer, model.ErrAccessTokenRequired.Error(), http.StatusForbidden)
			return
		}
		if kind == RefreshToken && !claims.Refresh {
			util.HandleError(writer, model.ErrRefreshTokenRequired.Error(), http.StatusForbidden)
			return
		}

		blocked, err := blocklist.Contains(request.Context(), claims.ID)
		if err != nil {
			// Redis недоступен: отклоняем, иначе logout перестаёт работать
			util.HandleError(writer, model.ErrStoreUnavailable.Error(), http.StatusServiceUnavailable)
			return
		}
		if blocked {
			// отозванный токен неотличим от подделки
			util.HandleError(writer, model.ErrTokenInvalid.Error(), http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

// RequireRoles : проверка роли и подтверждённости аккаунта.
// Ставится после JWTMiddleware(AccessToken, ...), порядок не меняется.
// Пользователь перечитывается из БД: подтверждённость и роль должны быть
// живыми, а не снимком из токена. Неподтверждённый аккаунт отклоняется
// до проверки роли, даже если роль подходит.
func RequireRoles(userRepository *repository.UserRepository, allowedRoles ...string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := GetClaimsFromContext(request.Context())
			if err != nil {
				util.HandleError(writer, model.ErrMissingCredentials.Error(), http.StatusUnauthorized)
				return
			}

			db, ok := config.DatabaseFromContext(request.Context())
			if !ok {
				util.HandleError(writer, "внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			user, err := userRepository.FindByEmail(request.Context(), db, claims.Email)
			if err != nil {
				log.Printf("не удалось найти пользователя %s: %v", claims.Email, err)
				util.HandleError(writer, model.ErrUserNotFound.Error(), http.StatusNotFound)
				return
			}

			if !user.IsVerified {
				util.HandleError(writer, model.ErrAccountNotVerified.Error(), http.StatusForbidden)
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				util.HandleError(writer, model.ErrInsufficientPermission.Error(), http.StatusForbidden)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), CurrentUserContextKey, user))
			next.ServeHTTP(writer, req)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}

func GetCurrentUserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(CurrentUserContextKey).(*model.User)
	if !ok || user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}
