package ports

import (
	"context"

	"book-review-api/internal/model"

	"github.com/jmoiron/sqlx"
)

type BookRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, book *model.Book) (*model.Book, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Book, error)
	ListBooks(ctx context.Context, exec sqlx.ExtContext) ([]*model.Book, error)
	ListByUserUUID(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]*model.Book, error)
	Update(ctx context.Context, exec sqlx.ExtContext, book *model.Book) error
	SetCoverKey(ctx context.Context, exec sqlx.ExtContext, uuid, coverKey string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error
}

type BookService interface {
	ListBooks(ctx context.Context) ([]*model.Book, error)
	ListUserBooks(ctx context.Context, userUUID string) ([]*model.Book, error)
	GetBook(ctx context.Context, uuid string) (*model.BookDetail, error)
	CreateBook(ctx context.Context, book *model.Book) (*model.Book, error)
	UpdateBook(ctx context.Context, book *model.Book) error
	DeleteBook(ctx context.Context, uuid string) error
	CoverUploadURL(ctx context.Context, bookUUID string) (string, error)
	CoverDownloadURL(ctx context.Context, bookUUID string) (string, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, review *model.Review) (*model.Review, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Review, error)
	ListByBookUUID(ctx context.Context, exec sqlx.ExtContext, bookUUID string) ([]*model.Review, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, uuid, userUUID string) error
}

type ReviewService interface {
	AddReview(ctx context.Context, review *model.Review) (*model.Review, error)
	GetReview(ctx context.Context, reviewUUID string) (*model.Review, error)
	ListBookReviews(ctx context.Context, bookUUID string) ([]*model.Review, error)
	DeleteReview(ctx context.Context, reviewUUID string) error
}

type TagRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, tag *model.Tag) (*model.Tag, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Tag, error)
	ListTags(ctx context.Context, exec sqlx.ExtContext) ([]*model.Tag, error)
	ListByBookUUID(ctx context.Context, exec sqlx.ExtContext, bookUUID string) ([]*model.Tag, error)
	AttachToBook(ctx context.Context, exec sqlx.ExtContext, bookUUID, tagUUID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error
}

type TagService interface {
	ListTags(ctx context.Context) ([]*model.Tag, error)
	CreateTag(ctx context.Context, name string) (*model.Tag, error)
	AttachTagToBook(ctx context.Context, bookUUID, tagUUID string) error
	DeleteTag(ctx context.Context, uuid string) error
}
