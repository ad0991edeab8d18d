package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent     = "PRESENT"
	StatusLate        = "LATE"
	StatusPaidLeave   = "PAID_LEAVE"
	StatusAbsent      = "ABSENT"
	StatusUnpaidLeave = "UNPAID_LEAVE"
)

// StaffAttendance is one marked day for one employee. A day is marked at most
// once; re-marking replaces the status.
type StaffAttendance struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID       uuid.UUID `gorm:"column:school_id;type:uuid;not null;index;uniqueIndex:uq_staff_attendance_day,priority:1"`
	EmployeeID     uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_staff_attendance_day,priority:2"`
	AttendanceDate time.Time `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_staff_attendance_day,priority:3"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	Note           string    `gorm:"column:note;type:text"`
	MarkedBy       string    `gorm:"column:marked_by;type:varchar(64)"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (StaffAttendance) TableName() string {
	return "staff_attendances"
}

// SchoolCalendarDay overrides the default classification of one date.
type SchoolCalendarDay struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID    uuid.UUID `gorm:"column:school_id;type:uuid;not null;uniqueIndex:uq_school_calendar_day,priority:1"`
	Date        time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_school_calendar_day,priority:2"`
	DayType     string    `gorm:"column:day_type;type:varchar(20);not null"`
	Description string    `gorm:"column:description;type:varchar(255)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SchoolCalendarDay) TableName() string {
	return "school_calendar_days"
}

type statusCount struct {
	Status string
	Total  int
}
