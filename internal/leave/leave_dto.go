package leave

import "time"

type ApplyRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=annual sick personal maternity paternity"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type DecideRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

type LeaveResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	LeaveType       string     `json:"leave_type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	TotalDays       int        `json:"total_days"`
	Status          string     `json:"status"`
	Reason          string     `json:"reason,omitempty"`
	ApproverID      string     `json:"approver_id,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type TypeSummary struct {
	Balance   int `json:"balance"`
	Taken     int `json:"taken"`
	Available int `json:"available"`
}

type SummaryResponse struct {
	EmployeeID string                 `json:"employee_id"`
	Year       int                    `json:"year"`
	Types      map[string]TypeSummary `json:"types"`
}
