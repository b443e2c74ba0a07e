package repository_test

import (
	"context"
	"testing"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlocklist(t *testing.T) (*repository.BlocklistRepository, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := &config.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: srv.Addr()}),
	}
	return repository.NewBlocklistRepository(client, time.Hour), srv
}

func TestBlocklist_AddAndContains(t *testing.T) {
	repo, _ := newTestBlocklist(t)
	ctx := context.Background()

	blocked, err := repo.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, repo.AddJTI(ctx, "jti-1"))

	blocked, err = repo.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blocked)

	// другой jti не задет
	blocked, err = repo.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlocklist_EntryExpires(t *testing.T) {
	repo, srv := newTestBlocklist(t)
	ctx := context.Background()

	require.NoError(t, repo.AddJTI(ctx, "jti-1"))

	// к моменту истечения TTL токен и так просрочен
	srv.FastForward(time.Hour + time.Minute)

	blocked, err := repo.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlocklist_StoreUnavailable(t *testing.T) {
	repo, srv := newTestBlocklist(t)
	ctx := context.Background()

	srv.Close()

	err := repo.AddJTI(ctx, "jti-1")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = repo.Contains(ctx, "jti-1")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = repo.ConsumeLink(ctx, "fp-1", 30*time.Minute)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

// Ссылка гасится ровно один раз: из двух попыток с одним отпечатком
// проходит только первая.
func TestBlocklist_ConsumeLinkOnce(t *testing.T) {
	repo, _ := newTestBlocklist(t)
	ctx := context.Background()

	consumed, err := repo.ConsumeLink(ctx, "fp-1", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = repo.ConsumeLink(ctx, "fp-1", 30*time.Minute)
	require.NoError(t, err)
	assert.False(t, consumed)

	// другой отпечаток не задет
	consumed, err = repo.ConsumeLink(ctx, "fp-2", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, consumed)
}

func TestBlocklist_LinkMarkerExpires(t *testing.T) {
	repo, srv := newTestBlocklist(t)
	ctx := context.Background()

	consumed, err := repo.ConsumeLink(ctx, "fp-1", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, consumed)

	// к моменту истечения TTL сама ссылка уже просрочена кодеком
	srv.FastForward(31 * time.Minute)

	consumed, err = repo.ConsumeLink(ctx, "fp-1", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, consumed)
}
