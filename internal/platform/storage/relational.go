package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relational is the Backend variant backed by an embedded SQL engine through GORM.
// The *gorm.DB must be opened with TranslateError enabled so unique-index
// violations surface as gorm.ErrDuplicatedKey.
type Relational struct {
	db      *gorm.DB
	logger  *zap.Logger
	mu      sync.Mutex
	users   *gormTable[UserRow, *UserRow]
	reports *gormTable[ReportRow, *ReportRow]
}

// Compile-time check to ensure Relational implements Backend.
var _ Backend = (*Relational)(nil)

// NewRelational creates a relational backend on db.
func NewRelational(db *gorm.DB, logger *zap.Logger) *Relational {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Relational{db: db, logger: logger}
	r.users = &gormTable[UserRow, *UserRow]{db: db, mu: &r.mu}
	r.reports = &gormTable[ReportRow, *ReportRow]{db: db, mu: &r.mu}
	return r
}

// Name returns "relational".
func (r *Relational) Name() string { return "relational" }

// EnsureSchema migrates the users and reports tables. AutoMigrate only adds
// missing tables, columns and indexes.
func (r *Relational) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&UserRow{}, &ReportRow{}); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}
	r.logger.Info("relational schema ensured", zap.Strings("tables", []string{UserRow{}.TableName(), ReportRow{}.TableName()}))
	return nil
}

// Ping checks the database connection.
func (r *Relational) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *Relational) Users() Table[UserRow] { return r.users }

func (r *Relational) Reports() Table[ReportRow] { return r.reports }

// Close closes the underlying connection pool.
func (r *Relational) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormTable implements Table with GORM. Writes share the backend mutex.
type gormTable[T any, P rowPtr[T]] struct {
	db *gorm.DB
	mu *sync.Mutex
}

func (t *gormTable[T, P]) Insert(ctx context.Context, rec *T) (int64, error) {
	if rec == nil {
		return 0, errors.New("storage: nil record")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	p := P(rec)
	p.SetID(0)
	if err := t.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("%w: insert %s: %v", ErrUnavailable, p.TableName(), err)
	}
	return p.GetID(), nil
}

func (t *gormTable[T, P]) QueryAll(ctx context.Context) ([]T, error) {
	return t.QueryWhere(ctx)
}

func (t *gormTable[T, P]) QueryWhere(ctx context.Context, conds ...Cond) ([]T, error) {
	q := t.db.WithContext(ctx).Model(new(T))
	for _, c := range conds {
		q = q.Where(clause.Eq{Column: clause.Column{Name: c.Column}, Value: c.Value})
	}
	var rows []T
	if err := q.Order(ColID + " ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrUnavailable, P(new(T)).TableName(), err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (t *gormTable[T, P]) Update(ctx context.Context, id int64, patch Patch) error {
	if len(patch) == 0 {
		return errors.New("storage: empty patch")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	result := t.db.WithContext(ctx).
		Model(new(T)).
		Where(ColID+" = ?", id).
		Updates(map[string]any(patch))
	if result.Error != nil {
		return fmt.Errorf("%w: update %s: %v", ErrUnavailable, P(new(T)).TableName(), result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
