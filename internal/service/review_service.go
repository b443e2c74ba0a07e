package service

import (
	"context"
	"fmt"
	"log"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/ports"
	"book-review-api/internal/security"
	"book-review-api/internal/util"

	"github.com/google/uuid"
)

type ReviewService struct {
	reviewRepository ports.ReviewRepository
	bookRepository   ports.BookRepository
}

func NewReviewService(reviewRepository ports.ReviewRepository, bookRepository ports.BookRepository) *ReviewService {
	return &ReviewService{
		reviewRepository: reviewRepository,
		bookRepository:   bookRepository,
	}
}

// AddReview : добавляет отзыв текущего пользователя к книге
func (s *ReviewService) AddReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, model.ErrInvalidRating
	}

	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[ReviewService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("[ReviewService] пользователь не авторизован")
	}

	// книга должна существовать
	if _, err := s.bookRepository.FindByUUID(ctx, db, review.BookUUID); err != nil {
		return nil, err
	}

	review.UUID = uuid.New().String()
	review.UserUUID = claims.UserUUID

	created, err := s.reviewRepository.Create(ctx, db, review)
	if err != nil {
		return nil, util.LogError("[ReviewService] не удалось сохранить отзыв", err)
	}

	log.Printf("[ReviewService] отзыв %s добавлен к книге %s", created.UUID, created.BookUUID)
	return created, nil
}

// GetReview : отзыв по UUID
func (s *ReviewService) GetReview(ctx context.Context, reviewUUID string) (*model.Review, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[ReviewService] database connection не найден в context")
	}

	return s.reviewRepository.FindByUUID(ctx, db, reviewUUID)
}

// ListBookReviews : отзывы на книгу
func (s *ReviewService) ListBookReviews(ctx context.Context, bookUUID string) ([]*model.Review, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[ReviewService] database connection не найден в context")
	}

	return s.reviewRepository.ListByBookUUID(ctx, db, bookUUID)
}

// DeleteReview : удаляет собственный отзыв текущего пользователя
func (s *ReviewService) DeleteReview(ctx context.Context, reviewUUID string) error {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[ReviewService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return fmt.Errorf("[ReviewService] пользователь не авторизован")
	}

	return s.reviewRepository.Delete(ctx, db, reviewUUID, claims.UserUUID)
}
