package service

import (
	"context"
	"fmt"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/ports"
	"book-review-api/internal/util"

	"github.com/google/uuid"
)

type TagService struct {
	tagRepository  ports.TagRepository
	bookRepository ports.BookRepository
}

func NewTagService(tagRepository ports.TagRepository, bookRepository ports.BookRepository) *TagService {
	return &TagService{
		tagRepository:  tagRepository,
		bookRepository: bookRepository,
	}
}

// ListTags : все теги
func (s *TagService) ListTags(ctx context.Context) ([]*model.Tag, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[TagService] database connection не найден в context")
	}

	return s.tagRepository.ListTags(ctx, db)
}

// CreateTag : создаёт тег
func (s *TagService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("[TagService] имя тега не может быть пустым")
	}

	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[TagService] database connection не найден в context")
	}

	tag := &model.Tag{
		UUID: uuid.New().String(),
		Name: name,
	}

	created, err := s.tagRepository.Create(ctx, db, tag)
	if err != nil {
		return nil, util.LogError("[TagService] не удалось создать тег", err)
	}

	return created, nil
}

// AttachTagToBook : привязывает тег к книге
func (s *TagService) AttachTagToBook(ctx context.Context, bookUUID, tagUUID string) error {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[TagService] database connection не найден в context")
	}

	if _, err := s.bookRepository.FindByUUID(ctx, db, bookUUID); err != nil {
		return err
	}
	if _, err := s.tagRepository.FindByUUID(ctx, db, tagUUID); err != nil {
		return err
	}

	return s.tagRepository.AttachToBook(ctx, db, bookUUID, tagUUID)
}

// DeleteTag : удаляет тег
func (s *TagService) DeleteTag(ctx context.Context, tagUUID string) error {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[TagService] database connection не найден в context")
	}

	return s.tagRepository.Delete(ctx, db, tagUUID)
}
