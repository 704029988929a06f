package onboarding

// Audit statuses surfaced on responses whose primary write committed but
// whose audit-record write did not.
const (
	AuditComplete      = "complete"
	AuditPartialCommit = "partial_commit"
)

type InviteRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	PersonalEmail string `json:"personal_email" binding:"required,email"`
	OfficialEmail string `json:"official_email" binding:"required,email"`
	Role          string `json:"role" binding:"omitempty,oneof=admin hr employee"`
	Department    string `json:"department"`
	Position      string `json:"position"`
}

type SubmitDetailsRequest struct {
	Phone            string         `json:"phone" binding:"required"`
	Address          string         `json:"address" binding:"required"`
	DateOfBirth      string         `json:"date_of_birth" binding:"required"`
	EmergencyContact string         `json:"emergency_contact"`
	Extra            map[string]any `json:"extra"`
}

type ReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Comments string `json:"comments"`
}

type OnboardingResponse struct {
	EmployeeID       string `json:"id"`
	EmployeeCode     string `json:"employee_id,omitempty"`
	FullName         string `json:"full_name"`
	OfficialEmail    string `json:"official_email"`
	OnboardingStatus string `json:"onboarding_status"`
	Remarks          string `json:"remarks,omitempty"`
	AuditStatus      string `json:"audit_status"`
}

type RecordResponse struct {
	EmployeeID       string          `json:"employee_id"`
	Status           string          `json:"status"`
	SubmittedPayload map[string]any  `json:"submitted_payload,omitempty"`
	Timeline         []TimelineEntry `json:"timeline"`
}
