package ports

import (
	"context"

	"book-review-api/internal/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (bool, error)
	MarkVerified(ctx context.Context, exec sqlx.ExtContext, uuid string) error
	UpdatePassword(ctx context.Context, exec sqlx.ExtContext, uuid, newPasswordHash string) error
}

type UserService interface {
	GetProfile(ctx context.Context, userUUID string) (*model.User, []*model.Book, error)
}
