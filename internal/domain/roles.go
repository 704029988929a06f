package domain

// The three fixed principal roles. Admin inherits every HR permission via
// the rbac policy, HR handles reviews/approvals/assignment, employees act
// only on their own records.
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// Principal is the authenticated caller as extracted from the access token.
type Principal struct {
	UserID      string
	Role        string
	IsActive    bool
	IsOnboarded bool
}

func (p Principal) IsStaff() bool {
	return IsStaff(p.Role)
}

// IsStaff reports whether the role may act on records it does not own.
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleHR
}
