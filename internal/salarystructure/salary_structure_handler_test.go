package salarystructure_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/salarystructure"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeStructureService struct {
	createFn     func(ctx context.Context, schoolID string, req salarystructure.CreateSalaryStructureRequest) (salarystructure.SalaryStructureResponse, error)
	getByIDFn    func(ctx context.Context, schoolID, id string) (salarystructure.SalaryStructureResponse, error)
	deactivateFn func(ctx context.Context, schoolID, id string) (salarystructure.DeactivateResponse, error)
}

func (f *fakeStructureService) Create(ctx context.Context, schoolID string, req salarystructure.CreateSalaryStructureRequest) (salarystructure.SalaryStructureResponse, error) {
	return f.createFn(ctx, schoolID, req)
}
func (f *fakeStructureService) Update(ctx context.Context, schoolID, id string, req salarystructure.UpdateSalaryStructureRequest) (salarystructure.SalaryStructureResponse, error) {
	return salarystructure.SalaryStructureResponse{}, nil
}
func (f *fakeStructureService) GetAll(ctx context.Context, schoolID string, activeOnly bool) ([]salarystructure.SalaryStructureResponse, error) {
	return nil, nil
}
func (f *fakeStructureService) GetByID(ctx context.Context, schoolID, id string) (salarystructure.SalaryStructureResponse, error) {
	return f.getByIDFn(ctx, schoolID, id)
}
func (f *fakeStructureService) Deactivate(ctx context.Context, schoolID, id string) (salarystructure.DeactivateResponse, error) {
	return f.deactivateFn(ctx, schoolID, id)
}

func TestSalaryStructureHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		schoolID := uuid.New().String()
		svc := &fakeStructureService{
			createFn: func(ctx context.Context, sid string, req salarystructure.CreateSalaryStructureRequest) (salarystructure.SalaryStructureResponse, error) {
				assert.Equal(t, schoolID, sid)
				assert.Equal(t, "25000", req.BasicSalary.String())
				return salarystructure.SalaryStructureResponse{ID: "s1", Name: req.Name}, nil
			},
		}

		h := salarystructure.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"name":"Support Staff","basic_salary":25000,"hra_percent":"20"}`
		req := httptest.NewRequest(http.MethodPost, "/salary-structures", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("school_id", schoolID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Support Staff")
	})

	t.Run("missing name", func(t *testing.T) {
		h := salarystructure.NewHandler(&fakeStructureService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		req := httptest.NewRequest(http.MethodPost, "/salary-structures", strings.NewReader(`{"basic_salary":100}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSalaryStructureHandler_GetByID_NotFound(t *testing.T) {
	svc := &fakeStructureService{
		getByIDFn: func(ctx context.Context, schoolID, id string) (salarystructure.SalaryStructureResponse, error) {
			return salarystructure.SalaryStructureResponse{}, salarystructureerrors.ErrStructureNotFound
		},
	}

	h := salarystructure.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/salary-structures/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
