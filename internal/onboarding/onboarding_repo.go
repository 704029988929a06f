package onboarding

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *OnboardingRecord) error
	FindByEmployeeID(ctx context.Context, employeeID string) (*OnboardingRecord, error)
	// Append moves the record to newStatus and adds a timeline entry. The
	// timeline only ever grows; existing entries are never rewritten.
	Append(ctx context.Context, employeeID, newStatus string, entry TimelineEntry, payload map[string]any) error
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

func (r *repository) Create(ctx context.Context, rec *OnboardingRecord) error {
	return r.conn(ctx).Create(rec).Error
}

func (r *repository) FindByEmployeeID(ctx context.Context, employeeID string) (*OnboardingRecord, error) {
	var rec OnboardingRecord
	err := r.conn(ctx).First(&rec, "employee_id = ?", employeeID).Error
	return &rec, err
}

func (r *repository) Append(ctx context.Context, employeeID, newStatus string, entry TimelineEntry, payload map[string]any) error {
	rec, err := r.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return err
	}

	rec.Status = newStatus
	rec.Timeline = append(rec.Timeline, entry)
	if payload != nil {
		rec.SubmittedPayload = payload
	}

	return r.conn(ctx).Save(rec).Error
}
