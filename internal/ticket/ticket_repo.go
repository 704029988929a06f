package ticket

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Ticket) error
	FindByID(ctx context.Context, id string) (*Ticket, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Ticket, error)
	FindAll(ctx context.Context) ([]Ticket, error)
	// UpdateIfStatusIn applies updates only while the ticket is still in one
	// of fromStatuses, and reports how many rows matched.
	UpdateIfStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error)
	// SetRatingIfUnset stores rating and feedback only when no rating
	// exists yet. Zero rows means the ticket was already rated.
	SetRatingIfUnset(ctx context.Context, id string, rating int, feedback string) (int64, error)
	AddComment(ctx context.Context, comment *TicketComment) error
	FindComments(ctx context.Context, ticketID string, includeInternal bool) ([]TicketComment, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, t *Ticket) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	err := r.conn(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Ticket, error) {
	var tickets []Ticket
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) FindAll(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	err := r.conn(ctx).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) UpdateIfStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
	res := r.conn(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Where("status IN ?", fromStatuses).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) SetRatingIfUnset(ctx context.Context, id string, rating int, feedback string) (int64, error) {
	res := r.conn(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Where("rating IS NULL").
		Updates(map[string]any{"rating": rating, "feedback": feedback})
	return res.RowsAffected, res.Error
}

func (r *repository) AddComment(ctx context.Context, comment *TicketComment) error {
	return r.conn(ctx).Create(comment).Error
}

func (r *repository) FindComments(ctx context.Context, ticketID string, includeInternal bool) ([]TicketComment, error) {
	q := r.conn(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC")
	if !includeInternal {
		q = q.Where("internal = ?", false)
	}

	var comments []TicketComment
	err := q.Find(&comments).Error
	return comments, err
}
