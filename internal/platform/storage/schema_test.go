package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// countingEnsurer records how many times EnsureSchema ran.
type countingEnsurer struct {
	calls atomic.Int32
	delay time.Duration
	errs  []error
	mu    sync.Mutex
}

func (c *countingEnsurer) EnsureSchema(ctx context.Context) error {
	n := c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(n) <= len(c.errs) {
		return c.errs[n-1]
	}
	return nil
}

func TestSchemaInitializer_ConcurrentFirstCallsCollapse(t *testing.T) {
	ensurer := &countingEnsurer{delay: 50 * time.Millisecond}
	si := NewSchemaInitializer(ensurer)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, si.Ensure(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ensurer.calls.Load())
	assert.True(t, si.Ready())

	// Later calls are no-ops.
	for i := 0; i < 5; i++ {
		assert.NoError(t, si.Ensure(context.Background()))
	}
	assert.Equal(t, int32(1), ensurer.calls.Load())
}

func TestSchemaInitializer_RetriesAfterFailure(t *testing.T) {
	boom := errors.New("disk unavailable")
	ensurer := &countingEnsurer{errs: []error{boom}}
	si := NewSchemaInitializer(ensurer)

	err := si.Ensure(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, si.Ready())

	assert.NoError(t, si.Ensure(context.Background()))
	assert.True(t, si.Ready())
	assert.Equal(t, int32(2), ensurer.calls.Load())
}

func TestIDSource_Monotonic(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	s := NewIDSource(func() time.Time { return frozen })

	a := s.Next(0)
	b := s.Next(0)
	c := s.Next(b + 10)

	assert.Equal(t, frozen.UnixMilli(), a)
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+11, c)
}
