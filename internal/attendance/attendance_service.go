package attendance

import (
	"context"
	"database/sql"
	"strings"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var workedStatuses = []string{StatusPresent, StatusLate, StatusPaidLeave}

var absentStatuses = []string{StatusAbsent, StatusUnpaidLeave}

// Service records staff attendance and the school calendar. It also serves
// both as payroll.AttendanceProvider and payroll.CalendarProvider.
//
//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, schoolID, actorID string, req MarkAttendanceRequest) (AttendanceResponse, error)
	BulkMark(ctx context.Context, schoolID, actorID string, req BulkMarkRequest) ([]AttendanceResponse, error)
	ListByEmployee(ctx context.Context, schoolID, employeeID, from, to string) ([]AttendanceResponse, error)
	Summary(ctx context.Context, schoolID, employeeID, from, to string) (SummaryResponse, error)
	SetCalendarDay(ctx context.Context, schoolID string, req SetCalendarDayRequest) (CalendarDayResponse, error)
	ListCalendarDays(ctx context.Context, schoolID, from, to string) ([]CalendarDayResponse, error)
	DaysWorked(ctx context.Context, schoolID, employeeID string, from, to time.Time) (payroll.AttendanceSummary, error)
	Overrides(ctx context.Context, schoolID string, from, to time.Time) (map[string]string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &service{
		db:     db,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: base.Named("attendance.service"),
	}
}

func (s *service) Mark(ctx context.Context, schoolID, actorID string, req MarkAttendanceRequest) (AttendanceResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("school_id")
	}
	date, err := s.parseMarkDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	row, err := buildRow(schoolUUID, date, actorID, req.EmployeeID, req.Status, req.Note)
	if err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.repo.UpsertMany(ctx, []StaffAttendance{row}); err != nil {
		return AttendanceResponse{}, err
	}
	return toAttendanceResponse(row), nil
}

func (s *service) BulkMark(ctx context.Context, schoolID, actorID string, req BulkMarkRequest) ([]AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return nil, apperror.InvalidField("school_id")
	}
	date, err := s.parseMarkDate(req.Date)
	if err != nil {
		return nil, err
	}

	rows := make([]StaffAttendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		row, err := buildRow(schoolUUID, date, actorID, entry.EmployeeID, entry.Status, entry.Note)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpsertMany(ctx, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("attendance marked",
		zap.String("school_id", schoolID),
		zap.String("date", req.Date),
		zap.Int("entries", len(rows)),
	)

	out := make([]AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAttendanceResponse(row))
	}
	return out, nil
}

func (s *service) ListByEmployee(ctx context.Context, schoolID, employeeID, from, to string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, apperror.InvalidField("employee_id")
	}
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByEmployee(ctx, schoolID, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAttendanceResponse(row))
	}
	return out, nil
}

func (s *service) Summary(ctx context.Context, schoolID, employeeID, from, to string) (SummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return SummaryResponse{}, apperror.InvalidField("employee_id")
	}
	start, end, err := parseRange(from, to)
	if err != nil {
		return SummaryResponse{}, err
	}

	summary, err := s.DaysWorked(ctx, schoolID, employeeID, start, end)
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{
		EmployeeID: employeeID,
		From:       start.Format(time.DateOnly),
		To:         end.Format(time.DateOnly),
		Worked:     summary.Worked,
		Absent:     summary.Absent,
	}, nil
}

func (s *service) SetCalendarDay(ctx context.Context, schoolID string, req SetCalendarDayRequest) (CalendarDayResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return CalendarDayResponse{}, apperror.InvalidField("school_id")
	}
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(req.Date))
	if err != nil {
		return CalendarDayResponse{}, attendanceerrors.ErrInvalidDate
	}
	dayType := strings.ToUpper(strings.TrimSpace(req.DayType))
	switch dayType {
	case payroll.DayWorking, payroll.DayHoliday, payroll.DayWeekend:
	default:
		return CalendarDayResponse{}, attendanceerrors.ErrInvalidDayType
	}

	day := &SchoolCalendarDay{
		ID:          uuid.New(),
		SchoolID:    schoolUUID,
		Date:        date,
		DayType:     dayType,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.UpsertCalendarDay(ctx, day); err != nil {
		return CalendarDayResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("school calendar day set",
		zap.String("school_id", schoolID),
		zap.String("date", req.Date),
		zap.String("day_type", dayType),
	)
	return toCalendarDayResponse(*day), nil
}

func (s *service) ListCalendarDays(ctx context.Context, schoolID, from, to string) ([]CalendarDayResponse, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.FindCalendarDays(ctx, schoolID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]CalendarDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, toCalendarDayResponse(d))
	}
	return out, nil
}

// DaysWorked counts marked days in [from, to]. Unmarked days are in neither
// bucket; payroll only charges loss of pay for explicit absences.
func (s *service) DaysWorked(ctx context.Context, schoolID, employeeID string, from, to time.Time) (payroll.AttendanceSummary, error) {
	counts, err := s.repo.CountByStatus(ctx, schoolID, employeeID, from, to)
	if err != nil {
		return payroll.AttendanceSummary{}, err
	}

	var summary payroll.AttendanceSummary
	for _, status := range workedStatuses {
		summary.Worked += counts[status]
	}
	for _, status := range absentStatuses {
		summary.Absent += counts[status]
	}
	return summary, nil
}

func (s *service) Overrides(ctx context.Context, schoolID string, from, to time.Time) (map[string]string, error) {
	days, err := s.repo.FindCalendarDays(ctx, schoolID, from, to)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(days))
	for _, d := range days {
		out[d.Date.Format(time.DateOnly)] = d.DayType
	}
	return out, nil
}

func (s *service) parseMarkDate(raw string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDate
	}
	if date.After(s.now()) {
		return time.Time{}, attendanceerrors.ErrFutureDate
	}
	return date, nil
}

func buildRow(schoolID uuid.UUID, date time.Time, actorID, employeeID, status, note string) (StaffAttendance, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return StaffAttendance{}, apperror.InvalidField("employee_id")
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if !isValidStatus(status) {
		return StaffAttendance{}, attendanceerrors.ErrInvalidStatus
	}
	return StaffAttendance{
		ID:             uuid.New(),
		SchoolID:       schoolID,
		EmployeeID:     employeeUUID,
		AttendanceDate: date,
		Status:         status,
		Note:           strings.TrimSpace(note),
		MarkedBy:       actorID,
	}, nil
}

func isValidStatus(status string) bool {
	for _, s := range workedStatuses {
		if s == status {
			return true
		}
	}
	for _, s := range absentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDate
	}
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDate
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidRange
	}
	return start, end, nil
}

func toAttendanceResponse(a StaffAttendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       a.AttendanceDate.Format(time.DateOnly),
		Status:     a.Status,
		Note:       a.Note,
	}
}

func toCalendarDayResponse(d SchoolCalendarDay) CalendarDayResponse {
	return CalendarDayResponse{
		Date:        d.Date.Format(time.DateOnly),
		DayType:     d.DayType,
		Description: d.Description,
	}
}
