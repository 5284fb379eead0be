// Package adapters はreportsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/feature/reports/usecase"
	"cardenal_backend/internal/platform/storage"
)

// reportStore はReportRepositoryインターフェースのstorage.Table実装です。
type reportStore struct {
	table storage.Table[storage.ReportRow]
	loc   *time.Location
}

// reportStoreがReportRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ReportRepository = (*reportStore)(nil)

// NewReportStore は指定されたバックエンドのreportsテーブル上にreportStoreを生成します。
func NewReportStore(backend storage.Backend, loc *time.Location) *reportStore {
	if loc == nil {
		loc = time.UTC
	}
	return &reportStore{table: backend.Reports(), loc: loc}
}

// Create はレポートを追加し、採番されたIDをrに設定します。
func (s *reportStore) Create(ctx context.Context, r *entity.Report) error {
	if r == nil {
		return errors.New("report is nil")
	}
	id, err := s.table.Insert(ctx, rowFromEntity(r, s.loc))
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// ListAll はすべてのレポートを返します。
func (s *reportStore) ListAll(ctx context.Context) ([]entity.Report, error) {
	rows, err := s.table.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toEntities(rows), nil
}

// ListByOwner はuser_idが一致するレポートを返します。
func (s *reportStore) ListByOwner(ctx context.Context, ownerID int64) ([]entity.Report, error) {
	rows, err := s.table.QueryWhere(ctx, storage.Eq(storage.ColUserID, ownerID))
	if err != nil {
		return nil, err
	}
	return s.toEntities(rows), nil
}

// FindByID はIDでレポートを取得します。
// 存在しない場合、usecase.ErrReportNotFoundを返します。
func (s *reportStore) FindByID(ctx context.Context, id int64) (*entity.Report, error) {
	rows, err := s.table.QueryWhere(ctx, storage.Eq(storage.ColID, id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, usecase.ErrReportNotFound
	}
	r := toEntity(rows[0], s.loc)
	return &r, nil
}

// UpdateStatus は状態のみを更新します。
// 存在しない場合、usecase.ErrReportNotFoundを返します。
func (s *reportStore) UpdateStatus(ctx context.Context, id int64, status entity.Status) error {
	err := s.table.Update(ctx, id, storage.Patch{storage.ColStatus: string(status)})
	if errors.Is(err, storage.ErrNotFound) {
		return usecase.ErrReportNotFound
	}
	return err
}

func (s *reportStore) toEntities(rows []storage.ReportRow) []entity.Report {
	reports := make([]entity.Report, len(rows))
	for i, row := range rows {
		reports[i] = toEntity(row, s.loc)
	}
	return reports
}
