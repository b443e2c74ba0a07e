package repository

import (
	"context"
	"database/sql"
	"errors"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/util"

	"github.com/jmoiron/sqlx"
)

var ErrReviewNotFound = errors.New("отзыв не найден")

type ReviewRepository struct {
	*config.Database
}

func NewReviewRepository(database *config.Database) *ReviewRepository {
	return &ReviewRepository{database}
}

// Create : сохраняет отзыв к книге
func (r *ReviewRepository) Create(ctx context.Context, exec sqlx.ExtContext, review *model.Review) (*model.Review, error) {
	query := `
	INSERT INTO reviews (uuid, rating, review_text, user_uuid, book_uuid)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING uuid, rating, review_text, user_uuid, book_uuid, created_at, updated_at
	`

	created := &model.Review{}
	err := exec.QueryRowxContext(ctx, query,
		review.UUID,
		review.Rating,
		review.ReviewText,
		review.UserUUID,
		review.BookUUID,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[ReviewRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// FindByUUID : ищет отзыв по UUID
func (r *ReviewRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Review, error) {
	query := `
	SELECT uuid, rating, review_text, user_uuid, book_uuid, created_at, updated_at
	FROM reviews WHERE uuid = $1
	`
	var review model.Review
	err := sqlx.GetContext(ctx, exec, &review, query, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, util.LogError("[ReviewRepo] не удалось найти отзыв", err)
	}
	return &review, nil
}

// ListByBookUUID : отзывы на книгу, новые первыми
func (r *ReviewRepository) ListByBookUUID(ctx context.Context, exec sqlx.ExtContext, bookUUID string) ([]*model.Review, error) {
	query := `
	SELECT uuid, rating, review_text, user_uuid, book_uuid, created_at, updated_at
	FROM reviews WHERE book_uuid = $1 ORDER BY created_at DESC
	`
	var reviews []*model.Review
	err := sqlx.SelectContext(ctx, exec, &reviews, query, bookUUID)
	if err != nil {
		return nil, util.LogError("[ReviewRepo] не удалось получить отзывы книги", err)
	}
	return reviews, nil
}

// Delete : удаляет отзыв, принадлежащий пользователю.
// Условие по user_uuid в самом запросе: чужой отзыв удалить нельзя.
func (r *ReviewRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid, userUUID string) error {
	query := `DELETE FROM reviews WHERE uuid = $1 AND user_uuid = $2`
	result, err := exec.ExecContext(ctx, query, uuid, userUUID)
	if err != nil {
		return util.LogError("[ReviewRepo] не удалось удалить отзыв", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[ReviewRepo] не удалось проверить удаление", err)
	}
	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
