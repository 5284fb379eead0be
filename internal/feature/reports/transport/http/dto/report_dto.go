// Package dto はreportsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"cardenal_backend/internal/feature/reports/domain/entity"
)

// CreateReportReq はPOST /reportsのリクエストボディです。すべて任意で、空なら既定値が補われます。
type CreateReportReq struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Sector      string `json:"sector"`
	Date        string `json:"date"`
	Priority    string `json:"priority"`
}

// SetStatusReq はPATCH /reports/:id/statusのリクエストボディです。
type SetStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// ReportRes はレポートのレスポンス表現です。
type ReportRes struct {
	ID          int64  `json:"id"`
	Folio       string `json:"folio,omitempty"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Sector      string `json:"sector"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at,omitempty"`
	OwnerUserID *int64 `json:"owner_user_id"`
}

// NewReportRes はエンティティからレスポンスを組み立てます。
func NewReportRes(r entity.Report) ReportRes {
	res := ReportRes{
		ID:          r.ID,
		Folio:       r.Folio(),
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Location:    r.Location,
		Sector:      r.Sector,
		Date:        r.Date,
		Status:      string(r.Status),
		Priority:    r.Priority,
		OwnerUserID: r.OwnerUserID,
	}
	if !r.CreatedAt.IsZero() {
		res.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return res
}

// NewReportList は一覧レスポンスを組み立てます。空でもnullではなく[]になります。
func NewReportList(reports []entity.Report) []ReportRes {
	out := make([]ReportRes, len(reports))
	for i, r := range reports {
		out[i] = NewReportRes(r)
	}
	return out
}
