// Package dto はusersフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"cardenal_backend/internal/feature/users/domain/entity"
)

// SignupReq は/signupエンドポイントのリクエストボディを表します。
// メール形式などの詳細な検証はユースケース側で行います。
type SignupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordReq は/password/resetエンドポイントのリクエストボディを表します。
type ResetPasswordReq struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfileReq はPATCH /meのリクエストボディです。省略したフィールドは変更されません。
type UpdateProfileReq struct {
	Name      *string `json:"name"`
	Faculty   *string `json:"faculty"`
	StudentID *string `json:"student_id"`
	Semester  *string `json:"semester"`
}

// UserRes はユーザーのレスポンス表現です。資格情報は含みません。
type UserRes struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
	Faculty   string `json:"faculty"`
	StudentID string `json:"student_id"`
	Semester  string `json:"semester"`
}

// TokenRes は/loginの成功レスポンスです。
type TokenRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// NewUserRes はエンティティからレスポンスを組み立てます。
func NewUserRes(u *entity.User) UserRes {
	res := UserRes{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Faculty:   u.Faculty,
		StudentID: u.StudentID,
		Semester:  u.Semester,
	}
	if !u.CreatedAt.IsZero() {
		res.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return res
}
