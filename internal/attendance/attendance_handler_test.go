package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/attendance"
	attendanceerrors "go-payroll/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	attendance.Service

	markFn    func(ctx context.Context, schoolID, actorID string, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error)
	summaryFn func(ctx context.Context, schoolID, employeeID, from, to string) (attendance.SummaryResponse, error)
}

func (f *fakeService) Mark(ctx context.Context, schoolID, actorID string, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.markFn(ctx, schoolID, actorID, req)
}

func (f *fakeService) Summary(ctx context.Context, schoolID, employeeID, from, to string) (attendance.SummaryResponse, error) {
	return f.summaryFn(ctx, schoolID, employeeID, from, to)
}

func TestHandler_Mark(t *testing.T) {
	gin.SetMode(gin.TestMode)
	schoolID := uuid.NewString()
	employeeID := uuid.NewString()

	svc := &fakeService{
		markFn: func(ctx context.Context, sid, actorID string, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
			assert.Equal(t, schoolID, sid)
			assert.Equal(t, "emp-actor", actorID)
			return attendance.AttendanceResponse{EmployeeID: req.EmployeeID, Date: req.Date, Status: req.Status}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("school_id", schoolID)
	c.Set("employee_id", "emp-actor")
	c.Request = httptest.NewRequest(http.MethodPut, "/staff-attendances",
		strings.NewReader(`{"employee_id":"`+employeeID+`","date":"2025-03-03","status":"PRESENT"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Mark(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), employeeID)
}

func TestHandler_Mark_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/staff-attendances", strings.NewReader(`{"date":"2025-03-03"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Mark(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Summary_InvalidRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{
		summaryFn: func(ctx context.Context, schoolID, employeeID, from, to string) (attendance.SummaryResponse, error) {
			return attendance.SummaryResponse{}, attendanceerrors.ErrInvalidRange
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/staff-attendances/summary?from=2025-03-31&to=2025-03-01", nil)

	h.Summary(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestHandler_ListCalendarDays_MissingRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/school-calendar?from=2025-03-01", nil)

	h.ListCalendarDays(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}
