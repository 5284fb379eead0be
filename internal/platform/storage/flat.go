package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Flat is the Backend variant that keeps each collection as one JSON array
// under a fixed key of a key-value store (Redis). Newest records are
// prepended. Ids come from a clock-based IDSource.
type Flat struct {
	rdb     redis.Cmdable
	closer  func() error
	logger  *zap.Logger
	mu      sync.Mutex
	ids     *IDSource
	users   *blobTable[UserRow, *UserRow]
	reports *blobTable[ReportRow, *ReportRow]
}

// Compile-time check to ensure Flat implements Backend.
var _ Backend = (*Flat)(nil)

// NewFlat creates a flat backend on client. ids may be nil.
func NewFlat(client *redis.Client, ids *IDSource, logger *zap.Logger) *Flat {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ids == nil {
		ids = NewIDSource(nil)
	}
	f := &Flat{rdb: client, closer: client.Close, logger: logger, ids: ids}
	f.users = newBlobTable[UserRow](f)
	f.reports = newBlobTable[ReportRow](f)
	return f
}

// Name returns "flat".
func (f *Flat) Name() string { return "flat" }

// EnsureSchema seeds an empty array under each collection key that does not exist yet.
func (f *Flat) EnsureSchema(ctx context.Context) error {
	for _, key := range []string{UsersBlobKey, ReportsBlobKey} {
		created, err := f.rdb.SetNX(ctx, key, "[]", 0).Result()
		if err != nil {
			return fmt.Errorf("%w: seed %s: %v", ErrUnavailable, key, err)
		}
		if created {
			f.logger.Info("flat collection created", zap.String("key", key))
		}
	}
	return nil
}

// Ping checks the Redis connection.
func (f *Flat) Ping(ctx context.Context) error {
	if err := f.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (f *Flat) Users() Table[UserRow] { return f.users }

func (f *Flat) Reports() Table[ReportRow] { return f.reports }

// Close closes the Redis client.
func (f *Flat) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer()
}

// errCorrupt marks a stored blob that is not a JSON array.
var errCorrupt = errors.New("stored collection is not a JSON array")

// blobTable implements Table over one JSON array.
type blobTable[T any, P rowPtr[T]] struct {
	f       *Flat
	key     string
	unique  []string
	columns map[string]struct{}
}

func newBlobTable[T any, P rowPtr[T]](f *Flat) *blobTable[T, P] {
	var zero T
	p := P(&zero)
	return &blobTable[T, P]{
		f:       f,
		key:     p.BlobKey(),
		unique:  p.UniqueColumns(),
		columns: columnsOf(&zero),
	}
}

// load reads the raw elements of the collection. A missing key is an empty collection.
func (t *blobTable[T, P]) load(ctx context.Context) ([]json.RawMessage, error) {
	data, err := t.f.rdb.Get(ctx, t.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrUnavailable, t.key, err)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return elems, nil
}

// loadForRead is load with the degraded fallback: a corrupt blob reads as empty.
func (t *blobTable[T, P]) loadForRead(ctx context.Context) ([]json.RawMessage, error) {
	elems, err := t.load(ctx)
	if errors.Is(err, errCorrupt) {
		t.f.logger.Warn("unparseable collection, reading as empty", zap.String("key", t.key), zap.Error(err))
		return []json.RawMessage{}, nil
	}
	return elems, err
}

// loadForWrite is load where a corrupt blob is a storage failure.
func (t *blobTable[T, P]) loadForWrite(ctx context.Context) ([]json.RawMessage, error) {
	elems, err := t.load(ctx)
	if errors.Is(err, errCorrupt) {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, t.key, err)
	}
	return elems, err
}

func (t *blobTable[T, P]) save(ctx context.Context, elems []json.RawMessage) error {
	data, err := json.Marshal(elems)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", t.key, err)
	}
	if err := t.f.rdb.Set(ctx, t.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, t.key, err)
	}
	return nil
}

func (t *blobTable[T, P]) Insert(ctx context.Context, rec *T) (int64, error) {
	if rec == nil {
		return 0, errors.New("storage: nil record")
	}
	t.f.mu.Lock()
	defer t.f.mu.Unlock()

	elems, err := t.loadForWrite(ctx)
	if err != nil {
		return 0, err
	}

	fields, err := fieldsOf(rec)
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, raw := range elems {
		existing, err := decodeFields(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, t.key, err)
		}
		for _, col := range t.unique {
			if rawEqual(existing[col], fields[col]) {
				return 0, ErrConflict
			}
		}
		if id := idOf(existing); id > maxID {
			maxID = id
		}
	}

	p := P(rec)
	id := t.f.ids.Next(maxID)
	p.SetID(id)
	data, err := json.Marshal(rec)
	if err != nil {
		p.SetID(0)
		return 0, fmt.Errorf("failed to marshal record: %w", err)
	}

	out := make([]json.RawMessage, 0, len(elems)+1)
	out = append(out, data)
	out = append(out, elems...)
	if err := t.save(ctx, out); err != nil {
		p.SetID(0)
		return 0, err
	}
	return id, nil
}

func (t *blobTable[T, P]) QueryAll(ctx context.Context) ([]T, error) {
	return t.QueryWhere(ctx)
}

func (t *blobTable[T, P]) QueryWhere(ctx context.Context, conds ...Cond) ([]T, error) {
	elems, err := t.loadForRead(ctx)
	if err != nil {
		return nil, err
	}

	want := make(map[string]json.RawMessage, len(conds))
	for _, c := range conds {
		b, err := json.Marshal(c.Value)
		if err != nil {
			return nil, fmt.Errorf("storage: condition on %s: %w", c.Column, err)
		}
		want[c.Column] = b
	}

	out := make([]T, 0, len(elems))
	for _, raw := range elems {
		if len(want) > 0 {
			fields, err := decodeFields(raw)
			if err != nil {
				t.f.logger.Warn("skipping unparseable element", zap.String("key", t.key), zap.Error(err))
				continue
			}
			if !matches(fields, want) {
				continue
			}
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.f.logger.Warn("skipping unparseable element", zap.String("key", t.key), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (t *blobTable[T, P]) Update(ctx context.Context, id int64, patch Patch) error {
	if len(patch) == 0 {
		return errors.New("storage: empty patch")
	}
	for col := range patch {
		if _, ok := t.columns[col]; !ok {
			return fmt.Errorf("storage: unknown column %q in %s", col, t.key)
		}
	}

	t.f.mu.Lock()
	defer t.f.mu.Unlock()

	elems, err := t.loadForWrite(ctx)
	if err != nil {
		return err
	}
	for i, raw := range elems {
		fields, err := decodeFields(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, t.key, err)
		}
		if idOf(fields) != id {
			continue
		}
		for col, v := range patch {
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("storage: patch %s: %w", col, err)
			}
			fields[col] = b
		}
		updated, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		elems[i] = updated
		return t.save(ctx, elems)
	}
	return ErrNotFound
}

// columnsOf returns the JSON field names of a row type.
func columnsOf(rec any) map[string]struct{} {
	fields, err := fieldsOf(rec)
	if err != nil {
		return map[string]struct{}{}
	}
	cols := make(map[string]struct{}, len(fields))
	for k := range fields {
		cols[k] = struct{}{}
	}
	return cols
}

func fieldsOf(rec any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return decodeFields(data)
}

func decodeFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("element is not an object")
	}
	return fields, nil
}

func idOf(fields map[string]json.RawMessage) int64 {
	var id int64
	if raw, ok := fields[ColID]; ok {
		_ = json.Unmarshal(raw, &id)
	}
	return id
}

func matches(fields, want map[string]json.RawMessage) bool {
	for col, v := range want {
		if !rawEqual(fields[col], v) {
			return false
		}
	}
	return true
}

// rawEqual compares two JSON values after compaction. A missing field equals null.
func rawEqual(a, b json.RawMessage) bool {
	return bytes.Equal(compact(a), compact(b))
}

func compact(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
