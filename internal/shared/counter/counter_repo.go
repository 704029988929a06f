package counter

import (
	"context"

	"gorm.io/gorm"
)

// Series names. Employee IDs draw from a single global series; ticket numbers
// draw from one series per calendar month (see TicketSeries).
const (
	SeriesEmployeeID = "employee_id"
)

// TicketSeries returns the counter series for a YYYYMM month key.
func TicketSeries(monthKey string) string {
	return "ticket:" + monthKey
}

type Repository interface {
	GetNextValue(ctx context.Context, series string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetNextValue atomically increments and returns the next value of a series.
// A single upsert keeps concurrent callers from ever observing the same value,
// which is what makes EMP/TKT numbers safe under parallel approvals/creates.
func (r *repository) GetNextValue(ctx context.Context, series string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (series, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (series) DO UPDATE
		SET last_value = sequence_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, series).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
