// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardenal_backend/internal/feature/users/domain/entity"
	"cardenal_backend/internal/feature/users/transport/http/dto"
	"cardenal_backend/internal/feature/users/usecase"
	jwtmw "cardenal_backend/internal/platform/jwt"
	"cardenal_backend/internal/platform/http/respond"
	"cardenal_backend/internal/shared/apperr"
)

// UserUsecase はアカウント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, patch usecase.ProfilePatch) (*entity.User, error)
}

// TokenGenerator はログイン成功時のトークンを発行します。
type TokenGenerator interface {
	GenerateToken(userID int64, email string) (string, error)
}

// UserHandler はアカウント関連のHTTPリクエストを処理します。
type UserHandler struct {
	users  UserUsecase
	tokens TokenGenerator
	logger *zap.Logger
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase, tokens TokenGenerator, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, tokens: tokens, logger: logger}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バインド失敗・入力検証エラー時は400
// - メールアドレスまたはユーザー名の重複時は409
// - 成功時は作成されたユーザーと201を返却
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	user, err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	h.logger.Info("user signup successful", zap.Int64("user_id", user.ID), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusCreated, dto.NewUserRes(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 認証失敗時は401（未登録か誤りかは区別しない）
// - 成功時はJWTトークンとユーザーを200で返却
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if user == nil {
		h.logger.Warn("login failed", zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "invalid email or password"})
		return
	}
	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		respond.Error(c, h.logger, apperr.Storage("users.login", err))
		return
	}
	h.logger.Info("user login successful", zap.Int64("user_id", user.ID), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusOK, dto.TokenRes{Token: token, User: dto.NewUserRes(user)})
}

// ResetPassword はメールアドレス指定でパスワードを上書きします。未登録なら404。
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	if _, err := h.users.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Me は認証済みユーザー自身のプロフィールを返します。
func (h *UserHandler) Me(c *gin.Context) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "unauthorized"})
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if user == nil {
		// トークン発行後にストレージが入れ替わった場合
		c.JSON(http.StatusNotFound, respond.ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// UpdateMe は認証済みユーザー自身のプロフィールを部分更新します。
func (h *UserHandler) UpdateMe(c *gin.Context) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), id, usecase.ProfilePatch{
		Name:      req.Name,
		Faculty:   req.Faculty,
		StudentID: req.StudentID,
		Semester:  req.Semester,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}
