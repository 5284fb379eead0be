// Package usecase はstatsフィーチャー（レポート集計）を実装します。
package usecase

import (
	"context"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/shared/clock"
)

// ReportLister は集計対象のレポートを取得します。
// reportsフィーチャーのReportUsecaseがこのインターフェースを満たします。
type ReportLister interface {
	ListAll(ctx context.Context) ([]entity.Report, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]entity.Report, error)
}

// StatsUsecase はレポートの統計を提供します。
type StatsUsecase struct {
	reports ReportLister
	clock   clock.Clock
}

// NewStatsUsecase はStatsUsecaseの新しいインスタンスを生成します。
// clkはレポートの作成日時と同じタイムゾーンの時計である必要があります。
func NewStatsUsecase(reports ReportLister, clk clock.Clock) *StatsUsecase {
	return &StatsUsecase{reports: reports, clock: clk}
}

// Summary はレポートを集計します。ownerIDがnilの場合は全レポートが対象です。
// 取得時のエラーはそのまま返します（分類済みのapperr）。
func (u *StatsUsecase) Summary(ctx context.Context, ownerID *int64) (Summary, error) {
	var (
		reports []entity.Report
		err     error
	)
	if ownerID != nil {
		reports, err = u.reports.ListByOwner(ctx, *ownerID)
	} else {
		reports, err = u.reports.ListAll(ctx)
	}
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(reports, u.clock.Now()), nil
}
