package rbac_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	got domain.EnforceRequest
}

func (f *fakeService) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return req.Role == domain.RoleAccountant, nil
}

func TestHandler_Can(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := &fakeService{}
	handler := rbac.NewHandler(service)

	router := gin.New()
	router.GET("/rbac/can", func(c *gin.Context) {
		c.Set("role", domain.RoleAccountant)
		c.Set("school_id", "school-1")
	}, handler.Can)

	t.Run("allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/rbac/can?resource=loan&action=read", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Ok   bool                   `json:"ok"`
			Data domain.EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Allowed)
		assert.Equal(t, "school-1", service.got.SchoolID)
	})

	t.Run("missing action", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/rbac/can?resource=loan", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
