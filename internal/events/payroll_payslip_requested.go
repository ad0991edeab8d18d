package events

import "time"

const PayrollPayslipRequestedTopic = "school.payroll.payslip.requested.v1"

const EventTypePayslipRequested = "payroll_payslip_requested"

type PayrollPayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	PeriodID    string    `json:"period_id"`
	SchoolID    string    `json:"school_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
