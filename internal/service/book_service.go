package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/ports"
	"book-review-api/internal/security"
	"book-review-api/internal/util"

	"github.com/google/uuid"
)

type BookService struct {
	bookRepository   ports.BookRepository
	reviewRepository ports.ReviewRepository
	tagRepository    ports.TagRepository
	storageInterface ports.S3Storage
	urlTTL           time.Duration
}

func NewBookService(
	bookRepository ports.BookRepository,
	reviewRepository ports.ReviewRepository,
	tagRepository ports.TagRepository,
	storageInterface ports.S3Storage,
	urlTTL time.Duration,
) *BookService {
	return &BookService{
		bookRepository:   bookRepository,
		reviewRepository: reviewRepository,
		tagRepository:    tagRepository,
		storageInterface: storageInterface,
		urlTTL:           urlTTL,
	}
}

// ListBooks : все книги
func (s *BookService) ListBooks(ctx context.Context) ([]*model.Book, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[BookService] database connection не найден в context")
	}

	return s.bookRepository.ListBooks(ctx, db)
}

// ListUserBooks : книги, добавленные пользователем
func (s *BookService) ListUserBooks(ctx context.Context, userUUID string) ([]*model.Book, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[BookService] database connection не найден в context")
	}

	return s.bookRepository.ListByUserUUID(ctx, db, userUUID)
}

// GetBook : книга вместе с отзывами и тегами
func (s *BookService) GetBook(ctx context.Context, bookUUID string) (*model.BookDetail, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[BookService] database connection не найден в context")
	}

	book, err := s.bookRepository.FindByUUID(ctx, db, bookUUID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepository.ListByBookUUID(ctx, db, bookUUID)
	if err != nil {
		return nil, util.LogError("[BookService] не удалось получить отзывы", err)
	}

	tags, err := s.tagRepository.ListByBookUUID(ctx, db, bookUUID)
	if err != nil {
		return nil, util.LogError("[BookService] не удалось получить теги", err)
	}

	return &model.BookDetail{
		Book:    *book,
		Reviews: reviews,
		Tags:    tags,
	}, nil
}

// CreateBook : добавляет книгу от имени текущего пользователя
func (s *BookService) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[BookService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("[BookService] пользователь не авторизован")
	}

	book.UUID = uuid.New().String()
	book.UserUUID = claims.UserUUID

	created, err := s.bookRepository.Create(ctx, db, book)
	if err != nil {
		return nil, util.LogError("[BookService] не удалось создать книгу", err)
	}

	log.Printf("[BookService] книга %s добавлена", created.UUID)
	return created, nil
}

// UpdateBook : обновляет книгу, чужую книгу менять нельзя
func (s *BookService) UpdateBook(ctx context.Context, book *model.Book) error {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[BookService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return fmt.Errorf("[BookService] пользователь не авторизован")
	}

	existing, err := s.bookRepository.FindByUUID(ctx, db, book.UUID)
	if err != nil {
		return err
	}
	if existing.UserUUID != claims.UserUUID {
		return model.ErrInsufficientPermission
	}

	return s.bookRepository.Update(ctx, db, book)
}

// DeleteBook : удаляет книгу владельца или любую книгу для admin.
// Обложка в S3 удаляется после записи в БД, ошибка удаления из S3
// не откатывает операцию.
func (s *BookService) DeleteBook(ctx context.Context, bookUUID string) error {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[BookService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return fmt.Errorf("[BookService] пользователь не авторизован")
	}

	book, err := s.bookRepository.FindByUUID(ctx, db, bookUUID)
	if err != nil {
		return err
	}
	if book.UserUUID != claims.UserUUID && claims.Role != "admin" {
		return model.ErrInsufficientPermission
	}

	if err := s.bookRepository.Delete(ctx, db, bookUUID); err != nil {
		return err
	}

	if book.CoverKey != "" {
		if err := s.storageInterface.DeleteObject(ctx, book.CoverKey); err != nil {
			log.Printf("[BookService] не удалось удалить обложку %s: %v", book.CoverKey, err)
		}
	}

	return nil
}

// CoverUploadURL : pre-signed PUT URL для загрузки обложки
func (s *BookService) CoverUploadURL(ctx context.Context, bookUUID string) (string, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("[BookService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("[BookService] пользователь не авторизован")
	}

	book, err := s.bookRepository.FindByUUID(ctx, db, bookUUID)
	if err != nil {
		return "", err
	}
	if book.UserUUID != claims.UserUUID {
		return "", model.ErrInsufficientPermission
	}

	coverKey := fmt.Sprintf("covers/%s.jpg", bookUUID)
	putURL, err := s.storageInterface.GeneratePresignedPutURL(ctx, coverKey, s.urlTTL)
	if err != nil {
		return "", util.LogError("[BookService] не удалось сгенерировать URL загрузки", err)
	}

	if err := s.bookRepository.SetCoverKey(ctx, db, bookUUID, coverKey); err != nil {
		return "", err
	}

	return putURL, nil
}

// CoverDownloadURL : pre-signed GET URL обложки
func (s *BookService) CoverDownloadURL(ctx context.Context, bookUUID string) (string, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("[BookService] database connection не найден в context")
	}

	book, err := s.bookRepository.FindByUUID(ctx, db, bookUUID)
	if err != nil {
		return "", err
	}
	if book.CoverKey == "" {
		return "", fmt.Errorf("[BookService] у книги %s нет обложки", bookUUID)
	}

	getURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, book.CoverKey, s.urlTTL)
	if err != nil {
		return "", util.LogError("[BookService] не удалось сгенерировать URL обложки", err)
	}

	return getURL, nil
}
