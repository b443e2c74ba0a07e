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

var ErrTagNotFound = errors.New("тег не найден")

type TagRepository struct {
	*config.Database
}

func NewTagRepository(database *config.Database) *TagRepository {
	return &TagRepository{database}
}

// Create : создаёт тег
func (r *TagRepository) Create(ctx context.Context, exec sqlx.ExtContext, tag *model.Tag) (*model.Tag, error) {
	query := `
	INSERT INTO tags (uuid, name)
	VALUES ($1, $2)
	RETURNING uuid, name, created_at
	`

	created := &model.Tag{}
	err := exec.QueryRowxContext(ctx, query, tag.UUID, tag.Name).StructScan(created)
	if err != nil {
		return nil, util.LogError("[TagRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// FindByUUID : ищет тег по UUID
func (r *TagRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.Tag, error) {
	query := `SELECT uuid, name, created_at FROM tags WHERE uuid = $1`
	var tag model.Tag
	err := sqlx.GetContext(ctx, exec, &tag, query, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, util.LogError("[TagRepo] не удалось найти тег", err)
	}
	return &tag, nil
}

// ListTags : все теги
func (r *TagRepository) ListTags(ctx context.Context, exec sqlx.ExtContext) ([]*model.Tag, error) {
	query := `SELECT uuid, name, created_at FROM tags ORDER BY name ASC`
	var tags []*model.Tag
	err := sqlx.SelectContext(ctx, exec, &tags, query)
	if err != nil {
		return nil, util.LogError("[TagRepo] не удалось получить список тегов", err)
	}
	return tags, nil
}

// ListByBookUUID : теги книги
func (r *TagRepository) ListByBookUUID(ctx context.Context, exec sqlx.ExtContext, bookUUID string) ([]*model.Tag, error) {
	query := `
	SELECT t.uuid, t.name, t.created_at
	FROM tags AS t
	JOIN book_tags AS bt ON bt.tag_uuid = t.uuid
	WHERE bt.book_uuid = $1
	ORDER BY t.name ASC
	`
	var tags []*model.Tag
	err := sqlx.SelectContext(ctx, exec, &tags, query, bookUUID)
	if err != nil {
		return nil, util.LogError("[TagRepo] не удалось получить теги книги", err)
	}
	return tags, nil
}

// AttachToBook : привязывает тег к книге
func (r *TagRepository) AttachToBook(ctx context.Context, exec sqlx.ExtContext, bookUUID, tagUUID string) error {
	query := `
	INSERT INTO book_tags (book_uuid, tag_uuid)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING
	`
	_, err := exec.ExecContext(ctx, query, bookUUID, tagUUID)
	if err != nil {
		return util.LogError("[TagRepo] не удалось привязать тег к книге", err)
	}
	return nil
}

// Delete : удаляет тег
func (r *TagRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	query := `DELETE FROM tags WHERE uuid = $1`
	result, err := exec.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[TagRepo] не удалось удалить тег", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[TagRepo] не удалось проверить удаление", err)
	}
	if rowsAffected == 0 {
		return ErrTagNotFound
	}

	return nil
}
