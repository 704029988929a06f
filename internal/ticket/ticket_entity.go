package ticket

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket states. Resolved, closed and cancelled are terminal; reopening
// would need a dedicated operation, which does not exist.
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func IsTerminal(status string) bool {
	return status == StatusResolved || status == StatusClosed || status == StatusCancelled
}

type Ticket struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// TicketNumber is TKT-YYYYMM-NNNN, drawn from the per-month counter
	// series. The unique index is the last line of defense against a
	// duplicate draw; a violation surfaces as a retryable storage failure.
	TicketNumber string `gorm:"type:varchar(16);not null;uniqueIndex:idx_tickets_ticket_number"`

	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_tickets_employee_id"`

	Category    string `gorm:"type:varchar(40);not null"`
	Priority    string `gorm:"type:varchar(10);not null;default:'medium'"`
	Subject     string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`

	Status     string     `gorm:"type:varchar(20);not null;default:'open';index:idx_tickets_status"`
	AssignedTo *uuid.UUID `gorm:"type:uuid"`

	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt *time.Time
	Resolution *string `gorm:"type:text"`

	Rating   *int    `gorm:"type:smallint"`
	Feedback *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_tickets_deleted_at"`
}

type TicketComment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TicketID uuid.UUID `gorm:"type:uuid;not null;index:idx_ticket_comments_ticket_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`
	Text     string    `gorm:"type:text;not null"`

	// Internal comments are never visible to, and never authored by,
	// employees.
	Internal bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}
