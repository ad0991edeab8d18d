package loan_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/loan"
	loanerrors "go-payroll/internal/loan/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLoanService struct {
	loan.Service

	createFn  func(ctx context.Context, schoolID string, req loan.CreateLoanRequest) (loan.LoanResponse, error)
	approveFn func(ctx context.Context, schoolID, id, actorID string) (loan.LoanResponse, error)
}

func (f *fakeLoanService) CreateLoan(ctx context.Context, schoolID string, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
	return f.createFn(ctx, schoolID, req)
}

func (f *fakeLoanService) ApproveLoan(ctx context.Context, schoolID, id, actorID string) (loan.LoanResponse, error) {
	return f.approveFn(ctx, schoolID, id, actorID)
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	schoolID := uuid.NewString()
	employeeID := uuid.NewString()

	t.Run("created", func(t *testing.T) {
		svc := &fakeLoanService{
			createFn: func(ctx context.Context, sid string, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
				assert.Equal(t, schoolID, sid)
				assert.Equal(t, 12, req.TenureMonths)
				assert.Equal(t, "12000", req.PrincipalAmount.String())
				return loan.LoanResponse{ID: uuid.NewString(), EmployeeID: req.EmployeeID, LoanType: req.LoanType}, nil
			},
		}
		h := loan.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("school_id", schoolID)
		c.Request = httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(
			`{"employee_id":"`+employeeID+`","loan_type":"LOAN","principal_amount":"12000","interest_rate":"0","tenure_months":12,"start_date":"2025-03-01"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), employeeID)
	})

	t.Run("unknown loan type", func(t *testing.T) {
		h := loan.NewHandler(&fakeLoanService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(
			`{"employee_id":"`+employeeID+`","loan_type":"GIFT","start_date":"2025-03-01"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeLoanService{
		approveFn: func(ctx context.Context, schoolID, id, actorID string) (loan.LoanResponse, error) {
			assert.Equal(t, "user-1", actorID)
			return loan.LoanResponse{}, loanerrors.ErrLoanNotPendingApproval
		},
	}
	h := loan.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", "user-1")
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/loans/x/approve", nil)

	h.Approve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}
