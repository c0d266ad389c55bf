package events

import "time"

const PayslipRequestedTopic = "payroll.payslip.requested.v1"

// PayslipRequestedEvent asks the rendering collaborator to produce one
// payslip. It carries identifiers and the headline figure only; the renderer
// reads the full numeric record and line items from the store.
type PayslipRequestedEvent struct {
	EventType     string    `json:"event_type"`
	EntryID       string    `json:"entry_id"`
	EmployeeID    string    `json:"employee_id"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	PayslipNumber string    `json:"payslip_number"`
	FinalPayable  string    `json:"final_payable"`
	RequestedBy   string    `json:"requested_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
