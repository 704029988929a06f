package events

import "time"

const OnboardingLifecycleTopic = "hr.onboarding.lifecycle.v1"

type OnboardingApprovedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeCode  string    `json:"employee_code"`
	OfficialEmail string    `json:"official_email"`
	FullName      string    `json:"full_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}
