package storage

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// SchemaEnsurer is the part of Backend the initializer needs.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// SchemaInitializer runs EnsureSchema at most once successfully per process.
// Concurrent first callers share a single execution; a failed attempt is not
// remembered, so the next call tries again.
type SchemaInitializer struct {
	backend SchemaEnsurer
	group   singleflight.Group
	done    atomic.Bool
}

// NewSchemaInitializer creates an initializer for backend.
func NewSchemaInitializer(backend SchemaEnsurer) *SchemaInitializer {
	return &SchemaInitializer{backend: backend}
}

// Ensure makes sure the schema exists. Every repository entry point calls it.
func (s *SchemaInitializer) Ensure(ctx context.Context) error {
	if s.done.Load() {
		return nil
	}
	_, err, _ := s.group.Do("schema", func() (any, error) {
		if s.done.Load() {
			return nil, nil
		}
		if err := s.backend.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		s.done.Store(true)
		return nil, nil
	})
	return err
}

// Ready reports whether the schema has been ensured.
func (s *SchemaInitializer) Ready() bool {
	return s.done.Load()
}
