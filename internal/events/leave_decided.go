package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

type LeaveDecidedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	LeaveID       string    `json:"leave_id"`
	EmployeeID    string    `json:"employee_id"`
	OfficialEmail string    `json:"official_email"`
	LeaveType     string    `json:"leave_type"`
	Status        string    `json:"status"`
	TotalDays     int       `json:"total_days"`
	OccurredAt    time.Time `json:"occurred_at"`
}
