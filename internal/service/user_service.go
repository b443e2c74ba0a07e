package service

import (
	"context"
	"fmt"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/ports"
	"book-review-api/internal/util"
)

type UserService struct {
	userRepository ports.UserRepository
	bookRepository ports.BookRepository
}

func NewUserService(userRepository ports.UserRepository, bookRepository ports.BookRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
		bookRepository: bookRepository,
	}
}

// GetProfile : пользователь и добавленные им книги
func (s *UserService) GetProfile(ctx context.Context, userUUID string) (*model.User, []*model.Book, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, nil, fmt.Errorf("[UserService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByUUID(ctx, db, userUUID)
	if err != nil {
		return nil, nil, err
	}

	books, err := s.bookRepository.ListByUserUUID(ctx, db, userUUID)
	if err != nil {
		return nil, nil, util.LogError("[UserService] не удалось получить книги пользователя", err)
	}

	return user, books, nil
}
