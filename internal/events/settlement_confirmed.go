package events

import "time"

const SettlementConfirmedTopic = "school.payroll.settlement.confirmed.v1"

const EventTypeSettlementConfirmed = "payroll_settlement_confirmed"

// SettlementConfirmedEvent is emitted inside the settlement transaction; the
// notification consumer turns it into staff messages.
type SettlementConfirmedEvent struct {
	EventType             string    `json:"event_type"`
	RequestID             string    `json:"request_id,omitempty"`
	PeriodID              string    `json:"period_id"`
	SchoolID              string    `json:"school_id"`
	Month                 int       `json:"month"`
	Year                  int       `json:"year"`
	ProcessedItems        int       `json:"processed_items"`
	EmployeeIDs           []string  `json:"employee_ids"`
	TotalNet              int64     `json:"total_net"`
	BankTransferReference string    `json:"bank_transfer_reference,omitempty"`
	ConfirmedBy           string    `json:"confirmed_by"`
	OccurredAt            time.Time `json:"occurred_at"`
}
