package ports

import (
	"context"
	"time"

	"book-review-api/internal/model"
	"book-review-api/internal/security"
)

type JWTServiceInterface interface {
	GenerateToken(email, userUUID, role string, refresh bool) (string, string, error)
	GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, error)
	ParseToken(tokenStr string) (*security.Claims, error)
}

// LinkTokenCodecInterface : кодек подписанных ссылок для писем
type LinkTokenCodecInterface interface {
	Encode(payload map[string]string) (string, error)
	Decode(token string, maxAge time.Duration) (map[string]string, error)
}

// BlocklistRepositoryInterface : Redis-слой отозванных токенов
type BlocklistRepositoryInterface interface {
	AddJTI(ctx context.Context, jti string) error
	Contains(ctx context.Context, jti string) (bool, error)
	ConsumeLink(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
}
