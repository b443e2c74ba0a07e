package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/util"

	"github.com/jmoiron/sqlx"
)

var ErrBookNotFound = errors.New("книга не найдена")

type BookRepository struct {
	*config.Database
}

func NewBookRepository(database *config.Database) *BookRepository {
	return &BookRepository{database}
}

// Create : сохраняет новую книгу
func (r *BookRepository) Create(ctx context.Context, exec sqlx.ExtContext, book *model.Book) (*model.Book, error) {
	query := `
	INSERT INTO books (uuid, title, author, publisher, published_date, page_count, language, user_uuid)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING uuid, title, author, publisher, published_date, page_count, language, user_uuid, cover_key, created_at, updated_at
	`

	created := &model.Book{}
	err := exec.QueryRowxContext(ctx, query,
		book.UUID,
		book.Title,
		book.Author,
		book.Publisher,
		book.PublishedDate,
		book.PageCount,
		book.Language,
		book.UserUUID,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[BookRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// FindByUUID : ищет книгу по UUID
func (r *BookRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Book, error) {
	query := `
	SELECT uuid, title, author, publisher, published_date, page_count, language, user_uuid, cover_key, created_at, updated_at
	FROM books WHERE uuid = $1
	`
	var book model.Book
	err := sqlx.GetContext(ctx, exec, &book, query, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, util.LogError("[BookRepo] не удалось найти книгу в БД", err)
	}
	return &book, nil
}

// ListBooks : все книги, новые первыми
func (r *BookRepository) ListBooks(ctx context.Context, exec sqlx.ExtContext) ([]*model.Book, error) {
	query := `
	SELECT uuid, title, author, publisher, published_date, page_count, language, user_uuid, cover_key, created_at, updated_at
	FROM books ORDER BY created_at DESC
	`
	var books []*model.Book
	err := sqlx.SelectContext(ctx, exec, &books, query)
	if err != nil {
		return nil, util.LogError("[BookRepo] не удалось получить список книг", err)
	}
	return books, nil
}

// ListByUserUUID : книги, добавленные конкретным пользователем
func (r *BookRepository) ListByUserUUID(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]*model.Book, error) {
	query := `
	SELECT uuid, title, author, publisher, published_date, page_count, language, user_uuid, cover_key, created_at, updated_at
	FROM books WHERE user_uuid = $1 ORDER BY created_at DESC
	`
	var books []*model.Book
	err := sqlx.SelectContext(ctx, exec, &books, query, userUUID)
	if err != nil {
		return nil, util.LogError("[BookRepo] не удалось получить книги пользователя", err)
	}
	return books, nil
}

// Update : обновляет описание книги
func (r *BookRepository) Update(ctx context.Context, exec sqlx.ExtContext, book *model.Book) error {
	query := `
	UPDATE books
	SET title = $2, author = $3, publisher = $4, published_date = $5, page_count = $6, language = $7, updated_at = NOW()
	WHERE uuid = $1
	`
	result, err := exec.ExecContext(ctx, query,
		book.UUID,
		book.Title,
		book.Author,
		book.Publisher,
		book.PublishedDate,
		book.PageCount,
		book.Language,
	)
	if err != nil {
		return util.LogError("[BookRepo] не удалось обновить книгу", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[BookRepo] не удалось проверить обновление", err)
	}
	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// SetCoverKey : запоминает ключ обложки в S3
func (r *BookRepository) SetCoverKey(ctx context.Context, exec sqlx.ExtContext, uuid, coverKey string) error {
	query := `UPDATE books SET cover_key = $2, updated_at = NOW() WHERE uuid = $1`
	_, err := exec.ExecContext(ctx, query, uuid, coverKey)
	if err != nil {
		return util.LogError("[BookRepo] не удалось сохранить ключ обложки", err)
	}
	return nil
}

// Delete : удаляет книгу по UUID
func (r *BookRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	query := `DELETE FROM books WHERE uuid = $1`
	result, err := exec.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[BookRepo] не удалось удалить книгу", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[BookRepo] не удалось проверить удаление", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrBookNotFound, uuid)
	}

	return nil
}
