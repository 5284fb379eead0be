// Package storage provides the durable record store behind the users and
// reports repositories. Two interchangeable variants implement Backend:
// an embedded relational store (GORM) and a flat JSON blob store (Redis).
// The variant is chosen once at composition time; callers only see the
// Backend and Table interfaces.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Update when no record has the given id.
	ErrNotFound = errors.New("storage: record not found")

	// ErrConflict is returned by Insert when a unique column already holds the value.
	ErrConflict = errors.New("storage: unique constraint violated")

	// ErrUnavailable wraps backend I/O failures.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Row is implemented by pointer types of every persisted record.
type Row interface {
	// TableName is the relational table name (also used by GORM).
	TableName() string
	// BlobKey is the fixed key holding the collection in the flat store.
	BlobKey() string
	// UniqueColumns lists the columns that must be unique across the collection.
	UniqueColumns() []string
	GetID() int64
	SetID(id int64)
}

// rowPtr constrains P to be *T implementing Row.
type rowPtr[T any] interface {
	*T
	Row
}

// Cond is a column equality predicate. Conditions passed together are ANDed.
type Cond struct {
	Column string
	Value  any
}

// Eq builds a Cond matching rows whose column equals v. A nil v matches NULL.
func Eq(column string, v any) Cond {
	return Cond{Column: column, Value: v}
}

// Patch maps column names to new values.
type Patch map[string]any

// Table exposes the record primitives for one collection.
type Table[T any] interface {
	// Insert persists rec, assigns its id and returns it.
	// It returns ErrConflict when a unique column collides; nothing is written in that case.
	Insert(ctx context.Context, rec *T) (int64, error)

	// QueryAll returns every record. Order is unspecified.
	QueryAll(ctx context.Context) ([]T, error)

	// QueryWhere returns the records matching all conditions.
	QueryWhere(ctx context.Context, conds ...Cond) ([]T, error)

	// Update applies patch to the record with the given id.
	// It returns ErrNotFound when the id is absent.
	Update(ctx context.Context, id int64, patch Patch) error
}

// Backend is one storage variant.
type Backend interface {
	// Name identifies the variant ("relational" or "flat").
	Name() string

	// EnsureSchema creates the users and reports structures if missing.
	// It never recreates or truncates existing data.
	EnsureSchema(ctx context.Context) error

	// Ping checks that the underlying store is reachable.
	Ping(ctx context.Context) error

	Users() Table[UserRow]
	Reports() Table[ReportRow]

	Close() error
}
