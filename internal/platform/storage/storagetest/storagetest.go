// Package storagetest builds throwaway storage backends for tests:
// an in-memory SQLite relational backend and a miniredis-backed flat backend.
package storagetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"cardenal_backend/internal/platform/db"
	"cardenal_backend/internal/platform/storage"
)

// NewRelational returns a relational backend on a fresh in-memory SQLite database.
func NewRelational(t *testing.T) *storage.Relational {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err, "failed to initialize test database")

	b := storage.NewRelational(gdb, nil)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// NewFlat returns a flat backend on a fresh miniredis instance, plus the
// client and server so tests can inspect or corrupt the stored blobs.
func NewFlat(t *testing.T) (*storage.Flat, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := storage.NewFlat(client, nil, nil)

	t.Cleanup(func() {
		_ = b.Close()
		mr.Close()
	})
	return b, client, mr
}

// Factory builds one backend variant for a test.
type Factory struct {
	Name string
	New  func(t *testing.T) storage.Backend
}

// Factories lists both backend variants.
func Factories() []Factory {
	return []Factory{
		{Name: "relational", New: func(t *testing.T) storage.Backend { return NewRelational(t) }},
		{Name: "flat", New: func(t *testing.T) storage.Backend {
			b, _, _ := NewFlat(t)
			return b
		}},
	}
}

// ForEach runs fn as a subtest against a fresh instance of every backend variant.
func ForEach(t *testing.T, fn func(t *testing.T, b storage.Backend)) {
	t.Helper()
	for _, f := range Factories() {
		t.Run(f.Name, func(t *testing.T) {
			fn(t, f.New(t))
		})
	}
}
