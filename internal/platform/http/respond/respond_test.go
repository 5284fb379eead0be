package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"cardenal_backend/internal/shared/apperr"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperr.Validation("op", "email is required"), http.StatusBadRequest, `{"error":"email is required"}`},
		{"duplicate", apperr.Duplicate("op", "email taken"), http.StatusConflict, `{"error":"email taken"}`},
		{"not found", apperr.NotFound("op", "report 3 not found"), http.StatusNotFound, `{"error":"report 3 not found"}`},
		{"storage", apperr.Storage("op", errors.New("disk full")), http.StatusInternalServerError, `{"error":"internal error"}`},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, `{"error":"internal error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.True(t, c.IsAborted())
		})
	}
}

func TestBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	BadRequest(c, zap.NewNop(), errors.New("EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}
