package usecase

import (
	"math"
	"time"

	"cardenal_backend/internal/feature/reports/domain/entity"
)

const (
	// NoLocation is reported as the most active location when no report has one.
	NoLocation = "-"

	// OtherCategory groups reports filed without a category.
	OtherCategory = "Otro"
)

// Summary holds the figures derived from a set of reports.
type Summary struct {
	Total int

	// CountByStatus always holds a key for every status. The counts sum to Total.
	CountByStatus map[entity.Status]int

	// ResolvedPercentage is round(resolved*100/total), 0 when there are no reports.
	ResolvedPercentage int

	// AverageResolutionDays is the mean age in days of the resolved reports
	// with a known creation time, measured against now.
	AverageResolutionDays float64

	MostActiveLocation      string
	MostActiveLocationCount int

	CountByCategory map[string]int
}

// Aggregate computes the Summary of reports at instant now.
// Location ties go to the location encountered first in reports.
func Aggregate(reports []entity.Report, now time.Time) Summary {
	s := Summary{
		Total:              len(reports),
		CountByStatus:      make(map[entity.Status]int, len(entity.Statuses)),
		MostActiveLocation: NoLocation,
		CountByCategory:    map[string]int{},
	}
	for _, st := range entity.Statuses {
		s.CountByStatus[st] = 0
	}

	byLocation := map[string]int{}
	var locations []string
	var resolvedAges time.Duration
	var resolvedDated int

	for _, r := range reports {
		status := entity.StatusFromStored(string(r.Status))
		s.CountByStatus[status]++

		category := r.Category
		if category == "" {
			category = OtherCategory
		}
		s.CountByCategory[category]++

		if r.Location != "" {
			if byLocation[r.Location] == 0 {
				locations = append(locations, r.Location)
			}
			byLocation[r.Location]++
		}

		if status == entity.StatusResolved && !r.CreatedAt.IsZero() {
			resolvedAges += now.Sub(r.CreatedAt)
			resolvedDated++
		}
	}

	for _, loc := range locations {
		if n := byLocation[loc]; n > s.MostActiveLocationCount {
			s.MostActiveLocation = loc
			s.MostActiveLocationCount = n
		}
	}
	if s.Total > 0 {
		resolved := s.CountByStatus[entity.StatusResolved]
		s.ResolvedPercentage = int(math.Round(float64(resolved) * 100 / float64(s.Total)))
	}
	if resolvedDated > 0 {
		s.AverageResolutionDays = resolvedAges.Hours() / 24 / float64(resolvedDated)
	}
	return s
}
