package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cardenal_backend/internal/feature/reports/domain/entity"
	"cardenal_backend/internal/feature/stats/usecase"
	jwtmw "cardenal_backend/internal/platform/jwt"
	"cardenal_backend/internal/shared/apperr"
)

type mockStats struct {
	gotOwner *int64
	err      error
}

func (m *mockStats) Summary(_ context.Context, ownerID *int64) (usecase.Summary, error) {
	m.gotOwner = ownerID
	if m.err != nil {
		return usecase.Summary{}, m.err
	}
	return usecase.Summary{
		Total:                   2,
		CountByStatus:           map[entity.Status]int{entity.StatusResolved: 1, entity.StatusPending: 1},
		ResolvedPercentage:      50,
		AverageResolutionDays:   1.26,
		MostActiveLocation:      "Edificio A",
		MostActiveLocationCount: 2,
		CountByCategory:         map[string]int{"Plomería": 2},
	}, nil
}

func setup(m *mockStats) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewStatsHandler(m, nil)
	r := gin.New()
	r.GET("/stats", h.All)
	r.GET("/me/stats", func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			c.Set(jwtmw.ContextUserID, int64(9))
		}
	}, h.Mine)
	return r
}

func TestStatsHandler_All(t *testing.T) {
	m := &mockStats{}
	w := httptest.NewRecorder()
	setup(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, m.gotOwner)
	assert.JSONEq(t, `{
		"total": 2,
		"count_by_status": {"pending": 1, "in_progress": 0, "resolved": 1},
		"resolved_percentage": 50,
		"average_resolution_days": 1.3,
		"most_active_location": "Edificio A",
		"most_active_location_count": 2,
		"count_by_category": {"Plomería": 2}
	}`, w.Body.String())
}

func TestStatsHandler_Mine(t *testing.T) {
	m := &mockStats{}
	r := setup(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/stats", nil)
	req.Header.Set("X-Test-User", "1")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, m.gotOwner) {
		assert.Equal(t, int64(9), *m.gotOwner)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatsHandler_Error(t *testing.T) {
	w := httptest.NewRecorder()
	setup(&mockStats{err: apperr.Storage("reports.list_all", errors.New("io"))}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
