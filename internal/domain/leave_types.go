package domain

// Leave types and the balances every employee starts with, in working days.
const (
	LeaveTypeAnnual    = "annual"
	LeaveTypeSick      = "sick"
	LeaveTypePersonal  = "personal"
	LeaveTypeMaternity = "maternity"
	LeaveTypePaternity = "paternity"
)

var LeaveTypes = []string{
	LeaveTypeAnnual,
	LeaveTypeSick,
	LeaveTypePersonal,
	LeaveTypeMaternity,
	LeaveTypePaternity,
}

func IsLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// DefaultLeaveBalance returns a fresh entitlement map for a newly invited
// employee.
func DefaultLeaveBalance() map[string]int {
	return map[string]int{
		LeaveTypeAnnual:    21,
		LeaveTypeSick:      7,
		LeaveTypePersonal:  5,
		LeaveTypeMaternity: 0,
		LeaveTypePaternity: 0,
	}
}
