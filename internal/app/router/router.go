package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardenal_backend/internal/app/di"
	"cardenal_backend/internal/platform/http/middleware"
	jwtmw "cardenal_backend/internal/platform/jwt"
	"cardenal_backend/internal/shared/ratelimiter"
)

// Options はルーター全体に関わる設定です。
type Options struct {
	JWTSecret string
	// AuthLimiter が nil の場合、ログイン試行は制限しません。
	AuthLimiter ratelimiter.Limiter
}

// NewRouter はルーティングを設定したGinエンジンを返します。
func NewRouter(h di.Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)
	// 新規ユーザー登録
	r.POST("/signup", h.Users.Signup)
	// ログイン（JWT 発行）とパスワード再設定はクライアントごとに試行回数を制限
	throttled := r.Group("/")
	if opts.AuthLimiter != nil {
		throttled.Use(middleware.RateLimit(opts.AuthLimiter, logger))
	}
	{
		throttled.POST("/login", h.Users.Login)
		throttled.POST("/password/reset", h.Users.ResetPassword)
	}

	r.GET("/reports", h.Reports.List)
	r.GET("/reports/:id", h.Reports.Get)
	r.GET("/stats", h.Stats.All)
	// トークンがあれば所有者として記録する
	r.POST("/reports", jwtmw.AuthOptional(opts.JWTSecret), h.Reports.Create)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/me", h.Users.Me)
		auth.PATCH("/me", h.Users.UpdateMe)
		auth.GET("/me/reports", h.Reports.ListMine)
		auth.GET("/me/reports/:id", h.Reports.GetMine)
		auth.GET("/me/stats", h.Stats.Mine)
		auth.PATCH("/reports/:id/status", h.Reports.SetStatus)
	}

	return r
}
