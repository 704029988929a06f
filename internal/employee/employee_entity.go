package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Onboarding states. The employee row is the source of truth for admission
// state; the onboarding record mirrors it for audit only.
const (
	OnboardingPending    = "pending"
	OnboardingInProgress = "in-progress"
	OnboardingSubmitted  = "submitted"
	OnboardingApproved   = "approved"
	OnboardingRejected   = "rejected"
)

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// EmployeeID is the public EMPxxxxx identifier, assigned exactly once
	// when onboarding is approved.
	EmployeeID *string `gorm:"type:varchar(12);uniqueIndex:idx_employees_employee_id"`

	FullName      string `gorm:"type:varchar(120);not null"`
	PersonalEmail string `gorm:"type:varchar(254);not null"`
	OfficialEmail string `gorm:"type:varchar(254);not null;uniqueIndex:idx_employees_official_email"`
	Role          string `gorm:"type:varchar(20);not null;default:'employee'"`
	PasswordHash  string `gorm:"type:varchar(100);not null"`
	IsActive      bool   `gorm:"not null;default:true"`

	Department string `gorm:"type:varchar(120)"`
	Position   string `gorm:"type:varchar(120)"`
	Phone      string `gorm:"type:varchar(30)"`

	OnboardingStatus      string `gorm:"type:varchar(20);not null;default:'pending';index:idx_employees_onboarding_status"`
	OnboardingSubmittedAt *time.Time
	OnboardingDecidedAt   *time.Time
	OnboardingDecidedBy   *uuid.UUID `gorm:"type:uuid"`
	OnboardingRemarks     *string    `gorm:"type:text"`

	// LeaveBalance maps leave type to entitled working days. Taken days are
	// never stored here; they are derived from approved leave requests.
	LeaveBalance map[string]int `gorm:"serializer:json;type:jsonb;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

// Onboarded reports whether the employee may use leave and ticket workflows.
func (e *Employee) Onboarded() bool {
	return e.OnboardingStatus == OnboardingApproved
}
