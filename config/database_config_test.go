package config_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"book-review-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBMiddleware_PutsDatabaseIntoContext(t *testing.T) {
	db := &config.Database{}

	var got *config.Database
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = config.DatabaseFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	config.DBMiddleware(db)(next).ServeHTTP(rec, req)

	require.True(t, ok)
	assert.Same(t, db, got)
}

func TestDatabaseFromContext_MissingDatabase(t *testing.T) {
	_, ok := config.DatabaseFromContext(context.Background())
	assert.False(t, ok)
}

func TestDatabaseFromContext_ForeignStringKeyIgnored(t *testing.T) {
	// значение под строковым ключом "db" из чужого кода не наше соединение
	ctx := context.WithValue(context.Background(), "db", &config.Database{}) //nolint:staticcheck
	_, ok := config.DatabaseFromContext(ctx)
	assert.False(t, ok)
}
