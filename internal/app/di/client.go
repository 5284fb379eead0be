package di

import (
	"context"

	reportentity "cardenal_backend/internal/feature/reports/domain/entity"
	reportusecase "cardenal_backend/internal/feature/reports/usecase"
	statsusecase "cardenal_backend/internal/feature/stats/usecase"
	userentity "cardenal_backend/internal/feature/users/domain/entity"
	"cardenal_backend/internal/shared/apperr"
)

// Login は資格情報を確認し、一致した場合に現在のユーザーとして記録します。
// 一致しない場合は (nil, nil) を返し、セッションは変更しません。
func (s *Services) Login(ctx context.Context, email, password string) (*userentity.User, error) {
	user, err := s.Users.Authenticate(ctx, email, password)
	if err != nil || user == nil {
		return nil, err
	}
	if err := s.Session.SetCurrent(ctx, user); err != nil {
		return nil, apperr.Storage("session.set_current", err)
	}
	return user, nil
}

// Logout は現在のセッションを破棄します。
func (s *Services) Logout(ctx context.Context) error {
	if err := s.Session.Clear(ctx); err != nil {
		return apperr.Storage("session.clear", err)
	}
	return nil
}

// CurrentUser はサインイン中のユーザーを返します。誰もいない場合は (nil, nil) です。
func (s *Services) CurrentUser(ctx context.Context) (*userentity.User, error) {
	id, err := s.currentUserID(ctx)
	if err != nil || id == nil {
		return nil, err
	}
	return s.Users.FindByID(ctx, *id)
}

// SubmitReport はサインイン中のユーザーを所有者としてレポートを作成します。
// 誰もサインインしていない場合、所有者なしで記録されます。
func (s *Services) SubmitReport(ctx context.Context, in reportusecase.ReportInput) (*reportentity.Report, error) {
	owner, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.Reports.Create(ctx, owner, in)
}

// MyReports はサインイン中のユーザーのレポートを新しい順に返します。
func (s *Services) MyReports(ctx context.Context) ([]reportentity.Report, error) {
	owner, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return []reportentity.Report{}, nil
	}
	return s.Reports.ListByOwner(ctx, *owner)
}

// MyReport はサインイン中のユーザーが所有するレポートを返します。
// 未サインイン、存在しない、または他人のレポートの場合は (nil, nil) です。
func (s *Services) MyReport(ctx context.Context, id int64) (*reportentity.Report, error) {
	owner, err := s.currentUserID(ctx)
	if err != nil || owner == nil {
		return nil, err
	}
	return s.Reports.GetOwned(ctx, id, *owner)
}

// MyStats はサインイン中のユーザーのレポートを集計します。
func (s *Services) MyStats(ctx context.Context) (statsusecase.Summary, error) {
	owner, err := s.currentUserID(ctx)
	if err != nil {
		return statsusecase.Summary{}, err
	}
	if owner == nil {
		return statsusecase.Aggregate(nil, s.Clock.Now()), nil
	}
	return s.Stats.Summary(ctx, owner)
}

func (s *Services) currentUserID(ctx context.Context) (*int64, error) {
	id, err := s.Session.CurrentUserID(ctx)
	if err != nil {
		return nil, apperr.Storage("session.current_user", err)
	}
	return id, nil
}
