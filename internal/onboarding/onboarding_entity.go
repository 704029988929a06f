package onboarding

import (
	"time"

	"github.com/google/uuid"
)

// Record statuses mirror the employee's onboarding state. The record is an
// advisory audit projection; the employee row stays authoritative.
const (
	RecordInvited   = "invited"
	RecordSubmitted = "submitted"
	RecordApproved  = "approved"
	RecordRejected  = "rejected"
)

// Timeline actions.
const (
	ActionInvited   = "invited"
	ActionSubmitted = "details_submitted"
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
)

type TimelineEntry struct {
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// OnboardingRecord is the one-per-employee audit trail of the admission
// workflow. It is appended to across the lifecycle, never overwritten.
type OnboardingRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_onboarding_records_employee"`

	Status           string          `gorm:"type:varchar(20);not null;default:'invited'"`
	SubmittedPayload map[string]any  `gorm:"serializer:json;type:jsonb"`
	Timeline         []TimelineEntry `gorm:"serializer:json;type:jsonb;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
