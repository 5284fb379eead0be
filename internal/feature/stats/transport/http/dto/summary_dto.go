// Package dto defines the stats response body.
package dto

import (
	"math"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/feature/stats/usecase"
)

// SummaryRes is the JSON form of usecase.Summary.
type SummaryRes struct {
	Total                   int            `json:"total"`
	CountByStatus           map[string]int `json:"count_by_status"`
	ResolvedPercentage      int            `json:"resolved_percentage"`
	AverageResolutionDays   float64        `json:"average_resolution_days"`
	MostActiveLocation      string         `json:"most_active_location"`
	MostActiveLocationCount int            `json:"most_active_location_count"`
	CountByCategory         map[string]int `json:"count_by_category"`
}

// NewSummaryRes converts s. Average days are rounded to one decimal.
func NewSummaryRes(s usecase.Summary) SummaryRes {
	byStatus := make(map[string]int, len(entity.Statuses))
	for _, st := range entity.Statuses {
		byStatus[string(st)] = s.CountByStatus[st]
	}
	byCategory := s.CountByCategory
	if byCategory == nil {
		byCategory = map[string]int{}
	}
	return SummaryRes{
		Total:                   s.Total,
		CountByStatus:           byStatus,
		ResolvedPercentage:      s.ResolvedPercentage,
		AverageResolutionDays:   math.Round(s.AverageResolutionDays*10) / 10,
		MostActiveLocation:      s.MostActiveLocation,
		MostActiveLocationCount: s.MostActiveLocationCount,
		CountByCategory:         byCategory,
	}
}
