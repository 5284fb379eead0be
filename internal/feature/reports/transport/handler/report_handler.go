// Package handler はreportsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/feature/reports/transport/http/dto"
	"cardenal_backend/internal/feature/reports/usecase"
	jwtmw "cardenal_backend/internal/platform/jwt"
	"cardenal_backend/internal/platform/http/respond"
)

// ReportUsecase はレポート操作のユースケースを定義します。
type ReportUsecase interface {
	Create(ctx context.Context, ownerUserID *int64, in usecase.ReportInput) (*entity.Report, error)
	ListAll(ctx context.Context) ([]entity.Report, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]entity.Report, error)
	SetStatus(ctx context.Context, id int64, status entity.Status) (bool, error)
	GetByID(ctx context.Context, id int64) (*entity.Report, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*entity.Report, error)
}

// ReportHandler はレポート関連のHTTPリクエストを処理します。
type ReportHandler struct {
	reports ReportUsecase
	logger  *zap.Logger
}

// NewReportHandler はReportHandlerの新しいインスタンスを生成します。
func NewReportHandler(reports ReportUsecase, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Create はレポートを登録します。Bearerトークンがあればそのユーザーが所有者になります。
func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}

	var owner *int64
	if id, ok := jwtmw.UserID(c); ok {
		owner = &id
	}
	report, err := h.reports.Create(c.Request.Context(), owner, usecase.ReportInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Sector:      req.Sector,
		Date:        req.Date,
		Priority:    req.Priority,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	h.logger.Info("report created", zap.Int64("report_id", report.ID), zap.Bool("anonymous", owner == nil))
	c.JSON(http.StatusCreated, dto.NewReportRes(*report))
}

// List はすべてのレポートを新しい順に返します。
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reports.ListAll(c.Request.Context())
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReportList(reports))
}

// ListMine は認証済みユーザーのレポートを新しい順に返します。
func (h *ReportHandler) ListMine(c *gin.Context) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "unauthorized"})
		return
	}
	reports, err := h.reports.ListByOwner(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReportList(reports))
}

// Get はIDでレポートを返します。存在しなければ404。
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	report, err := h.reports.GetByID(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, respond.ErrorResponse{Error: "report not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewReportRes(*report))
}

// GetMine は認証済みユーザーが所有するレポートを返します。
// 他人のレポートは存在しないものとして404を返します。
func (h *ReportHandler) GetMine(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	report, err := h.reports.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, respond.ErrorResponse{Error: "report not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewReportRes(*report))
}

// SetStatus はレポートの状態を変更し、変更後のレポートを返します。
// 未定義の状態は400、存在しないIDは404。
func (h *ReportHandler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}
	var req dto.SetStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.reports.SetStatus(ctx, id, entity.Status(req.Status)); err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	report, err := h.reports.GetByID(ctx, id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, respond.ErrorResponse{Error: "report not found"})
		return
	}
	h.logger.Info("report status changed", zap.Int64("report_id", id), zap.String("status", req.Status))
	c.JSON(http.StatusOK, dto.NewReportRes(*report))
}
