package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindPending(ctx context.Context) ([]LeaveRequest, error)
	// HasOverlapping reports whether a pending or approved request for the
	// employee intersects [start, end] inclusive.
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	// SumApprovedDaysByType totals chargeable days of approved requests
	// starting within [from, to], keyed by leave type.
	SumApprovedDaysByType(ctx context.Context, employeeID string, from, to time.Time) (map[string]int, error)
	// UpdateIfStatusIn applies updates only while the request is still in
	// one of fromStatuses, and reports how many rows matched.
	UpdateIfStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error)
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

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindPending(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SumApprovedDaysByType(ctx context.Context, employeeID string, from, to time.Time) (map[string]int, error) {
	var rows []struct {
		LeaveType string
		Days      int
	}
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Select("leave_type, COALESCE(SUM(total_days), 0) AS days").
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date BETWEEN ? AND ?", from, to).
		Group("leave_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	taken := make(map[string]int, len(rows))
	for _, row := range rows {
		taken[row.LeaveType] = row.Days
	}
	return taken, nil
}

func (r *repository) UpdateIfStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status IN ?", fromStatuses).
		Updates(updates)
	return res.RowsAffected, res.Error
}
