package events

import "time"

const ProfileChangeTopic = "school.payroll.profile.change.v1"

const (
	EventTypeProfileChangeSubmitted = "payroll_profile_change_submitted"
	EventTypeProfileChangeApproved  = "payroll_profile_change_approved"
	EventTypeProfileChangeRejected  = "payroll_profile_change_rejected"
)

type ProfileChangeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	ProfileID  string    `json:"profile_id"`
	SchoolID   string    `json:"school_id"`
	EmployeeID string    `json:"employee_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
