// Package usecase はusersフィーチャーのビジネスロジック（登録・認証・プロフィール更新）を実装します。
package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"cardenal_backend/internal/feature/users/domain/entity"
	"cardenal_backend/internal/shared/apperr"
	"cardenal_backend/internal/shared/clock"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化し、IDを設定します。
	// メールアドレスまたはユーザー名が既に存在する場合、ErrIdentityTakenを返します。
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail は正規化済みメールアドレスでユーザーを取得します。存在しない場合はErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByUsername はユーザー名でユーザーを取得します。存在しない場合はErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// FindByID はIDでユーザーを取得します。存在しない場合はErrUserNotFoundを返します。
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	// ListAll はすべてのユーザーを返します（順序は不定）。
	ListAll(ctx context.Context) ([]entity.User, error)
	// Update は指定されたフィールドのみを更新します。存在しない場合はErrUserNotFoundを返します。
	Update(ctx context.Context, id int64, fields UserFields) error
}

// SchemaGuard はリポジトリ呼び出しの前にスキーマの存在を保証します。
type SchemaGuard interface {
	Ensure(ctx context.Context) error
}

// UserFields は部分更新の対象フィールドです。nilのフィールドは変更しません。
type UserFields struct {
	Name       *string
	Faculty    *string
	StudentID  *string
	Semester   *string
	Credential *entity.Credential
}

// IsEmpty は更新対象のフィールドがないかを返します。
func (f UserFields) IsEmpty() bool {
	return f.Name == nil && f.Faculty == nil && f.StudentID == nil && f.Semester == nil && f.Credential == nil
}

// RegisterInput は新規登録の入力です。
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ProfilePatch はプロフィールの部分更新です。nilのフィールドは変更しません。
type ProfilePatch struct {
	Name      *string
	Faculty   *string
	StudentID *string
	Semester  *string
}

// NormalizeEmail はメールアドレスを比較用に正規化します（前後の空白除去と小文字化）。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername はユーザー名を正規化します（前後の空白除去）。
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// UserUsecase はアカウントの登録・認証・参照・更新を提供します。
type UserUsecase struct {
	users    UserRepository
	schema   SchemaGuard
	scheme   CredentialScheme
	clock    clock.Clock
	validate *validator.Validate
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
// schemeがnilの場合は平文比較（PlainScheme）を使用します。
func NewUserUsecase(users UserRepository, schema SchemaGuard, scheme CredentialScheme, clk clock.Clock) *UserUsecase {
	if scheme == nil {
		scheme = PlainScheme{}
	}
	return &UserUsecase{
		users:    users,
		schema:   schema,
		scheme:   scheme,
		clock:    clk,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register は新規ユーザーを登録し、IDと作成日時を含む永続化済みのレコードを返します。
// メールアドレスまたはユーザー名が既に使われている場合、apperr.ErrDuplicateIdentityを返します。
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	const op = "users.register"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Username = NormalizeUsername(in.Username)
	if err := u.validate.Struct(in); err != nil {
		return nil, apperr.Validation(op, "%s", describeValidation(err))
	}

	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Duplicate(op, "email %q is already registered", in.Email)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Storage(op, err)
	}
	if _, err := u.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Duplicate(op, "username %q is already registered", in.Username)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Storage(op, err)
	}

	cred, err := u.scheme.Seal(in.Password)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	user := &entity.User{
		Name:       in.Name,
		Email:      in.Email,
		Username:   in.Username,
		Credential: cred,
		CreatedAt:  u.clock.Now(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		// 事前チェックとの競合はストレージ側の一意制約で検出されます
		if errors.Is(err, ErrIdentityTaken) {
			return nil, apperr.Duplicate(op, "email or username is already registered")
		}
		return nil, apperr.Storage(op, err)
	}
	return user, nil
}

// Authenticate はメールアドレスとパスワードでユーザーを認証します。
// 一致するユーザーがいない場合はエラーではなく (nil, nil) を返します。
func (u *UserUsecase) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	const op = "users.authenticate"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}

	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, apperr.Storage(op, err)
	}
	if !u.scheme.Verify(user.Credential, password) {
		return nil, nil
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。存在しない場合は (nil, nil) を返します。
func (u *UserUsecase) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return u.find(ctx, "users.find_by_email", func() (*entity.User, error) {
		return u.users.FindByEmail(ctx, NormalizeEmail(email))
	})
}

// FindByUsername はユーザー名でユーザーを取得します。存在しない場合は (nil, nil) を返します。
func (u *UserUsecase) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return u.find(ctx, "users.find_by_username", func() (*entity.User, error) {
		return u.users.FindByUsername(ctx, NormalizeUsername(username))
	})
}

// FindByID はIDでユーザーを取得します。存在しない場合は (nil, nil) を返します。
func (u *UserUsecase) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return u.find(ctx, "users.find_by_id", func() (*entity.User, error) {
		return u.users.FindByID(ctx, id)
	})
}

func (u *UserUsecase) find(ctx context.Context, op string, lookup func() (*entity.User, error)) (*entity.User, error) {
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	user, err := lookup()
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, apperr.Storage(op, err)
	}
	return user, nil
}

// ListAll はすべてのユーザーを作成日時の新しい順に返します。
func (u *UserUsecase) ListAll(ctx context.Context) ([]entity.User, error) {
	const op = "users.list_all"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	users, err := u.users.ListAll(ctx)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})
	return users, nil
}

// ResetPassword はメールアドレスで指定されたユーザーのパスワードを上書きします。
// 該当ユーザーがいない場合はapperr.ErrNotFoundを返します。
func (u *UserUsecase) ResetPassword(ctx context.Context, email, newPassword string) (bool, error) {
	const op = "users.reset_password"
	if err := u.schema.Ensure(ctx); err != nil {
		return false, apperr.Storage(op, err)
	}
	if newPassword == "" {
		return false, apperr.Validation(op, "new password is required")
	}

	normalized := NormalizeEmail(email)
	user, err := u.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, apperr.NotFound(op, "no user with email %q", normalized)
		}
		return false, apperr.Storage(op, err)
	}

	cred, err := u.scheme.Seal(newPassword)
	if err != nil {
		return false, apperr.Storage(op, err)
	}
	if err := u.users.Update(ctx, user.ID, UserFields{Credential: &cred}); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, apperr.NotFound(op, "no user with email %q", normalized)
		}
		return false, apperr.Storage(op, err)
	}
	return true, nil
}

// UpdateProfile は名前・学部・学籍番号・学期を部分更新し、更新後のユーザーを返します。
// IDが存在しない場合はapperr.ErrNotFoundを返します。
func (u *UserUsecase) UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (*entity.User, error) {
	const op = "users.update_profile"
	if err := u.schema.Ensure(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}

	fields := UserFields{
		Name:      trimmed(patch.Name),
		Faculty:   trimmed(patch.Faculty),
		StudentID: trimmed(patch.StudentID),
		Semester:  trimmed(patch.Semester),
	}
	if fields.Name != nil && *fields.Name == "" {
		return nil, apperr.Validation(op, "name must not be empty")
	}

	if !fields.IsEmpty() {
		if err := u.users.Update(ctx, id, fields); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, apperr.NotFound(op, "user %d not found", id)
			}
			return nil, apperr.Storage(op, err)
		}
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound(op, "user %d not found", id)
		}
		return nil, apperr.Storage(op, err)
	}
	return user, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// describeValidation はvalidatorのエラーを利用者向けの短い文に変換します。
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" is not a valid email address")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
