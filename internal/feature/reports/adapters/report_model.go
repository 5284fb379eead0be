package adapters

import (
	"time"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/platform/storage"
	"cardenal_backend/internal/shared/clock"
)

// toEntity はストレージの行をドメインエンティティに変換します。
// fecha_completaが空の行はfechaを作成日時として読み取ります。
func toEntity(row storage.ReportRow, loc *time.Location) entity.Report {
	stamped := row.StampedAt
	if stamped == "" {
		stamped = row.Date
	}
	created, _ := clock.Parse(stamped, loc)

	date := row.Date
	if date == "" {
		date = row.StampedAt
	}

	var owner *int64
	if row.UserID != nil {
		id := *row.UserID
		owner = &id
	}
	return entity.Report{
		ID:          row.ID,
		Title:       row.Title,
		Category:    row.Category,
		Description: row.Description,
		Location:    row.Location,
		Sector:      row.Sector,
		Date:        date,
		Status:      entity.StatusFromStored(row.Status),
		Priority:    row.Priority,
		CreatedAt:   created,
		OwnerUserID: owner,
	}
}

// rowFromEntity はドメインエンティティをストレージの行に変換します。
func rowFromEntity(r *entity.Report, loc *time.Location) *storage.ReportRow {
	return &storage.ReportRow{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Location:    r.Location,
		Sector:      r.Sector,
		Date:        r.Date,
		Status:      string(r.Status),
		Priority:    r.Priority,
		StampedAt:   clock.Format(r.CreatedAt, loc),
		UserID:      r.OwnerUserID,
	}
}
