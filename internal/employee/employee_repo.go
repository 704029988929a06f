package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByOfficialEmail(ctx context.Context, email string) (*Employee, error)
	FindPendingOnboarding(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	// UpdateIfOnboardingStatusIn applies updates only while the row is still
	// in one of fromStatuses, and reports how many rows matched. Zero rows
	// means the caller lost a transition race (or the state was never legal).
	UpdateIfOnboardingStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error)
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

// conn binds the session to the caller's transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Order("created_at ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByOfficialEmail(ctx context.Context, email string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).First(&e, "official_email = ?", email).Error
	return &e, err
}

func (r *repository) FindPendingOnboarding(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Where("onboarding_status = ?", OnboardingSubmitted).
		Order("onboarding_submitted_at ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Save(e).Error
}

func (r *repository) UpdateIfOnboardingStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Where("onboarding_status IN ?", fromStatuses).
		Updates(updates)
	return res.RowsAffected, res.Error
}
