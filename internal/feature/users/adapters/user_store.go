// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"cardenal_backend/internal/feature/users/domain/entity"
	"cardenal_backend/internal/feature/users/usecase"
	"cardenal_backend/internal/platform/storage"
)

// userStore はUserRepositoryインターフェースのstorage.Table実装です。
// リレーショナル・フラットどちらのバックエンドでも同じように動作します。
type userStore struct {
	table storage.Table[storage.UserRow]
	loc   *time.Location
}

// userStoreがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userStore)(nil)

// NewUserStore は指定されたバックエンドのusersテーブル上にuserStoreを生成します。
// locは作成日時の保存・復元に使うタイムゾーンです。
func NewUserStore(backend storage.Backend, loc *time.Location) *userStore {
	if loc == nil {
		loc = time.UTC
	}
	return &userStore{table: backend.Users(), loc: loc}
}

// Create はユーザーを追加し、採番されたIDをuに設定します。
// メールアドレスまたはユーザー名が重複する場合、usecase.ErrIdentityTakenを返します。
func (s *userStore) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	id, err := s.table.Insert(ctx, rowFromEntity(u, s.loc))
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return usecase.ErrIdentityTaken
		}
		return err
	}
	u.ID = id
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (s *userStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.first(ctx, storage.Eq(storage.ColEmail, email))
}

// FindByUsername はユーザー名でユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (s *userStore) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.first(ctx, storage.Eq(storage.ColUsername, username))
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (s *userStore) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.first(ctx, storage.Eq(storage.ColID, id))
}

func (s *userStore) first(ctx context.Context, cond storage.Cond) (*entity.User, error) {
	rows, err := s.table.QueryWhere(ctx, cond)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, usecase.ErrUserNotFound
	}
	return toEntity(rows[0], s.loc), nil
}

// ListAll はすべてのユーザーを返します。
func (s *userStore) ListAll(ctx context.Context) ([]entity.User, error) {
	rows, err := s.table.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]entity.User, len(rows))
	for i, r := range rows {
		users[i] = *toEntity(r, s.loc)
	}
	return users, nil
}

// Update は指定されたフィールドのみを更新します。
// IDが存在しない場合、usecase.ErrUserNotFoundを返します。
func (s *userStore) Update(ctx context.Context, id int64, f usecase.UserFields) error {
	patch := storage.Patch{}
	if f.Name != nil {
		patch[storage.ColName] = *f.Name
	}
	if f.Faculty != nil {
		patch[storage.ColFaculty] = *f.Faculty
	}
	if f.StudentID != nil {
		patch[storage.ColStudent] = *f.StudentID
	}
	if f.Semester != nil {
		patch[storage.ColSemester] = *f.Semester
	}
	if f.Credential != nil {
		patch[storage.ColPassword] = f.Credential.Sealed()
	}
	if len(patch) == 0 {
		return nil
	}

	if err := s.table.Update(ctx, id, patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return usecase.ErrUserNotFound
		}
		return err
	}
	return nil
}
