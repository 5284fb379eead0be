// Package handler serves the report statistics endpoints.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardenal_backend/internal/feature/stats/transport/http/dto"
	"cardenal_backend/internal/feature/stats/usecase"
	jwtmw "cardenal_backend/internal/platform/jwt"
	"cardenal_backend/internal/platform/http/respond"
)

// StatsUsecase computes report summaries.
type StatsUsecase interface {
	Summary(ctx context.Context, ownerID *int64) (usecase.Summary, error)
}

// StatsHandler handles GET /stats and GET /me/stats.
type StatsHandler struct {
	stats  StatsUsecase
	logger *zap.Logger
}

func NewStatsHandler(stats StatsUsecase, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{stats: stats, logger: logger}
}

// All summarizes every report.
func (h *StatsHandler) All(c *gin.Context) {
	h.write(c, nil)
}

// Mine summarizes the authenticated user's reports.
func (h *StatsHandler) Mine(c *gin.Context) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "unauthorized"})
		return
	}
	h.write(c, &id)
}

func (h *StatsHandler) write(c *gin.Context, ownerID *int64) {
	s, err := h.stats.Summary(c.Request.Context(), ownerID)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryRes(s))
}
