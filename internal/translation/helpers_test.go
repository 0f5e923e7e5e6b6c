package translation

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/config"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
)

func newSQLitePool(t *testing.T) *db.Pool {
	t.Helper()

	pool, err := db.NewPool(context.Background(), &config.Config{
		Environment: "test",
		LogLevel:    "silent",
		DatabaseURL: fmt.Sprintf("file:engine_%s?mode=memory&cache=shared", uuid.NewString()),
		DBMinConns:  1,
		DBMaxConns:  1,
	})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}
