package ports

import (
	"context"

	"book-review-api/internal/model"
	"book-review-api/internal/security"
)

type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*model.TokensPair, *model.User, error)
	RefreshAccessToken(ctx context.Context, claims *security.Claims) (string, error)
	Logout(ctx context.Context, jti string) error
	Signup(ctx context.Context, user *model.User, password string) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}
