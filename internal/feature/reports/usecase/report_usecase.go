// Package usecase はreportsフィーチャーのビジネスロジック（登録・一覧・状態変更）を実装します。
package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/shared/apperr"
	"cardenal_backend/internal/shared/clock"
)

// ReportRepository はレポートエンティティの永続化層を抽象化します。
type ReportRepository interface {
	// Create は新しいレポートを永続化し、IDを設定します。
	Create(ctx context.Context, report *entity.Report) error
	// ListAll はすべてのレポートを返します（順序は不定）。
	ListAll(ctx context.Context) ([]entity.Report, error)
	// ListByOwner は指定ユーザーが所有するレポートを返します（順序は不定）。
	ListByOwner(ctx context.Context, ownerID int64) ([]entity.Report, error)
	// FindByID はIDでレポートを取得します。存在しない場合はErrReportNotFoundを返します。
	FindByID(ctx context.Context, id int64) (*entity.Report, error)
	// UpdateStatus は状態のみを更新します。存在しない場合はErrReportNotFoundを返します。
	UpdateStatus(ctx context.Context, id int64, status entity.Status) error
}

// SchemaGuard はリポジトリ呼び出しの前にスキーマの存在を保証します。
type SchemaGuard interface {
	Ensure(ctx context.Context) error
}

// ReportInput はレポート登録の入力です。空のフィールドには既定値が補われます。
type ReportInput struct {
	Title       string
	Category    string
	Description string
	Location    string
	Sector      string
	// Date は利用者が入力した発生日です。空の場合は作成日時になります。
	Date     string
	// Priority は自由記述です。空の場合はMediaになります。
	Priority string
}

// ReportUsecase はインシデントレポートの登録・参照・状態変更を提供します。
type ReportUsecase struct {
	reports ReportRepository
	schema  SchemaGuard
	clock   clock.Clock
}

// NewReportUsecase はReportUsecaseの新しいインスタンスを生成します。
func NewReportUsecase(reports ReportRepository, schema SchemaGuard, clk clock.Clock) *ReportUsecase {
	return &ReportUsecase{
		reports: reports,
		schema:  schema,
		clock:   clk,
	}
}

// Create は新しいレポートを状態pendingで登録し、永続化済みのレコードを返します。
// ownerUserIDがnilの場合、所有者なしのレポートになります。
func (u *ReportUsecase) Create(ctx context.Context, ownerUserID *int64, in ReportInput) (*entity.Report, error) {
	const op = "reports.create"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}

	in = normalizeInput(in)

	now := u.clock.Now()
	report := &entity.Report{
		Title:       firstNonEmpty(in.Title, in.Category, entity.DefaultTitle),
		Category:    in.Category,
		Description: in.Description,
		Location:    in.Location,
		Sector:      firstNonEmpty(in.Sector, in.Location),
		Date:        firstNonEmpty(in.Date, clock.Format(now, now.Location())),
		Status:      entity.StatusPending,
		Priority:    firstNonEmpty(in.Priority, entity.DefaultPriority),
		CreatedAt:   now,
	}
	if ownerUserID != nil {
		owner := *ownerUserID
		report.OwnerUserID = &owner
	}

	if err := u.reports.Create(ctx, report); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return report, nil
}

// ListAll はすべてのレポートを新しい順に返します。該当がなければ空スライスを返します。
func (u *ReportUsecase) ListAll(ctx context.Context) ([]entity.Report, error) {
	const op = "reports.list_all"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	reports, err := u.reports.ListAll(ctx)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	return newestFirst(reports), nil
}

// ListByOwner は指定ユーザーのレポートを新しい順に返します。該当がなければ空スライスを返します。
func (u *ReportUsecase) ListByOwner(ctx context.Context, ownerID int64) ([]entity.Report, error) {
	const op = "reports.list_by_owner"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	reports, err := u.reports.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	return newestFirst(reports), nil
}

// SetStatus はレポートの状態を変更します。どの状態からどの状態へも遷移できます。
// 未定義の状態はapperr.ErrValidation、存在しないIDはapperr.ErrNotFoundになります。
func (u *ReportUsecase) SetStatus(ctx context.Context, id int64, status entity.Status) (bool, error) {
	const op = "reports.set_status"
	if err := u.schema.Ensure(ctx); err != nil {
		return false, apperr.Storage(op, err)
	}
	if !status.Valid() {
		return false, apperr.Validation(op, "unknown status %q", string(status))
	}
	if err := u.reports.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return false, apperr.NotFound(op, "report %d not found", id)
		}
		return false, apperr.Storage(op, err)
	}
	return true, nil
}

// GetByID はIDでレポートを取得します。存在しない場合は (nil, nil) を返します。
func (u *ReportUsecase) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	const op = "reports.get_by_id"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	report, err := u.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, nil
		}
		return nil, apperr.Storage(op, err)
	}
	return report, nil
}

// GetOwned はownerIDが所有するレポートを返します。
// 存在しない場合も、他人のものや匿名のものの場合も (nil, nil) を返します。
func (u *ReportUsecase) GetOwned(ctx context.Context, id, ownerID int64) (*entity.Report, error) {
	report, err := u.GetByID(ctx, id)
	if err != nil || report == nil {
		return nil, err
	}
	if !report.OwnedBy(ownerID) {
		return nil, nil
	}
	return report, nil
}

// newestFirst は作成日時の降順、同時刻ならIDの降順に並べ替えます。
func newestFirst(reports []entity.Report) []entity.Report {
	if reports == nil {
		return []entity.Report{}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return reports
}

func normalizeInput(in ReportInput) ReportInput {
	return ReportInput{
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Sector:      strings.TrimSpace(in.Sector),
		Date:        strings.TrimSpace(in.Date),
		Priority:    strings.TrimSpace(in.Priority),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
