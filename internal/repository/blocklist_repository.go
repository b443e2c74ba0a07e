package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"

	"github.com/redis/go-redis/v9"
)

// BlocklistRepository : Redis-хранилище отозванных jti и использованных
// ссылок из писем. Записи живут с TTL и удаляются сами: к моменту
// истечения TTL токен и так просрочен, чистить руками нечего.
type BlocklistRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewBlocklistRepository(rdb *config.RedisClient, ttl time.Duration) *BlocklistRepository {
	return &BlocklistRepository{rdb, ttl}
}

// AddJTI : отзывает токен по его jti (logout).
// TTL записи равен времени жизни access токена.
func (r *BlocklistRepository) AddJTI(ctx context.Context, jti string) error {
	if err := r.client.Client.Set(ctx, r.jtiKey(jti), "", r.ttl).Err(); err != nil {
		log.Printf("ошибка записи jti в Redis: %v", err)
		return model.ErrStoreUnavailable
	}
	return nil
}

// Contains : проверяет, отозван ли токен.
// Ошибка Redis возвращается как ErrStoreUnavailable: вызывающая сторона
// обязана отклонить токен, а не пропустить его.
func (r *BlocklistRepository) Contains(ctx context.Context, jti string) (bool, error) {
	err := r.client.Client.Get(ctx, r.jtiKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil // токен не отзывался
	}
	if err != nil {
		log.Printf("ошибка чтения jti из Redis: %v", err)
		return false, model.ErrStoreUnavailable
	}
	return true, nil
}

// ConsumeLink : атомарно гасит подписанную ссылку.
// SETNX ставит отметку и одновременно отвечает, была ли она уже:
// из двух одновременных запросов с одной ссылкой пройдёт ровно один.
// Возвращает false, если ссылка уже использована.
func (r *BlocklistRepository) ConsumeLink(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	consumed, err := r.client.Client.SetNX(ctx, r.linkKey(fingerprint), "", ttl).Result()
	if err != nil {
		log.Printf("ошибка записи отпечатка ссылки в Redis: %v", err)
		return false, model.ErrStoreUnavailable
	}
	return consumed, nil
}

func (r *BlocklistRepository) jtiKey(jti string) string {
	return fmt.Sprintf("jti:%s", jti)
}

func (r *BlocklistRepository) linkKey(fingerprint string) string {
	return fmt.Sprintf("used_link:%s", fingerprint)
}
