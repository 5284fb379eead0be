// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger はストレージバックエンドの疎通確認を行います。storage.Backendがこれを満たします。
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// pingTimeout はヘルスチェック1回あたりの疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// HealthHandler はサービスヘルスチェック用の /healthz エンドポイントを処理します。
type HealthHandler struct {
	backend Pinger
	logger  *zap.Logger
}

// NewHealthHandler はHealthHandlerの新しいインスタンスを生成します。
func NewHealthHandler(backend Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{backend: backend, logger: logger}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// バックエンドに到達できない場合は503を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	status, code := "ok", http.StatusOK
	if err := h.backend.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.String("backend", h.backend.Name()), zap.Error(err))
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	if c.Request.Method == http.MethodHead {
		c.Status(code)
		return
	}
	c.JSON(code, gin.H{"status": status, "backend": h.backend.Name()})
}
