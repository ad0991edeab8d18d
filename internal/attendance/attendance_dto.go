package attendance

type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"required"`
	Note       string `json:"note" binding:"omitempty,max=500"`
}

type BulkMarkRequest struct {
	Date    string                `json:"date" binding:"required"`
	Entries []BulkAttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

type BulkAttendanceEntry struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Status     string `json:"status" binding:"required"`
	Note       string `json:"note" binding:"omitempty,max=500"`
}

type SetCalendarDayRequest struct {
	Date        string `json:"date" binding:"required"`
	DayType     string `json:"day_type" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

type RangeQuery struct {
	EmployeeID string `form:"employee_id"`
	From       string `form:"from" binding:"required"`
	To         string `form:"to" binding:"required"`
}

type AttendanceResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
}

type CalendarDayResponse struct {
	Date        string `json:"date"`
	DayType     string `json:"day_type"`
	Description string `json:"description,omitempty"`
}

type SummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Worked     int    `json:"worked"`
	Absent     int    `json:"absent"`
}
