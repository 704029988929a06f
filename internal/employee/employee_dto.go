package employee

type EmployeeResponse struct {
	ID               string         `json:"id"`
	EmployeeID       string         `json:"employee_id,omitempty"`
	FullName         string         `json:"full_name"`
	PersonalEmail    string         `json:"personal_email"`
	OfficialEmail    string         `json:"official_email"`
	Role             string         `json:"role"`
	IsActive         bool           `json:"is_active"`
	Department       string         `json:"department,omitempty"`
	Position         string         `json:"position,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	OnboardingStatus string         `json:"onboarding_status"`
	LeaveBalance     map[string]int `json:"leave_balance"`
}
