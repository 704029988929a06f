package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrdesk/internal/calendar"
	calendarerrors "go-hrdesk/internal/calendar/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeCalendarRepository struct {
	createFn           func(ctx context.Context, h *calendar.Holiday) error
	findAllFn          func(ctx context.Context) ([]calendar.Holiday, error)
	findByIDFn         func(ctx context.Context, id string) (*calendar.Holiday, error)
	findDatesBetweenFn func(ctx context.Context, from, to time.Time) ([]time.Time, error)
	existsOnDateFn     func(ctx context.Context, date time.Time) (bool, error)
	deleteFn           func(ctx context.Context, id string) error
}

func (f *fakeCalendarRepository) Create(ctx context.Context, h *calendar.Holiday) error {
	if f.createFn != nil {
		return f.createFn(ctx, h)
	}
	return nil
}

func (f *fakeCalendarRepository) FindAll(ctx context.Context) ([]calendar.Holiday, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) FindByID(ctx context.Context, id string) (*calendar.Holiday, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) FindDatesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	if f.findDatesBetweenFn != nil {
		return f.findDatesBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	if f.existsOnDateFn != nil {
		return f.existsOnDateFn(ctx, date)
	}
	return false, nil
}

func (f *fakeCalendarRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func setupCalendarServiceTest(t *testing.T) (*fakeCalendarRepository, calendar.Service) {
	t.Helper()
	repo := &fakeCalendarRepository{}
	svc := calendar.NewService(repo, nil)
	return repo, svc
}

func TestCalendarService_IsNonWorkingDay(t *testing.T) {
	ctx := context.Background()

	t.Run("saturday and sunday are non-working", func(t *testing.T) {
		_, svc := setupCalendarServiceTest(t)

		saturday := time.Date(2026, 1, 3, 15, 30, 0, 0, time.UTC)
		sunday := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)

		got, err := svc.IsNonWorkingDay(ctx, saturday)
		assert.NoError(t, err)
		assert.True(t, got)

		got, err = svc.IsNonWorkingDay(ctx, sunday)
		assert.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("holiday matches on date only", func(t *testing.T) {
		repo, svc := setupCalendarServiceTest(t)

		repo.findDatesBetweenFn = func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
			return []time.Time{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
		}

		got, err := svc.IsNonWorkingDay(ctx, time.Date(2026, 1, 1, 9, 45, 0, 0, time.UTC))
		assert.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("plain weekday is working", func(t *testing.T) {
		_, svc := setupCalendarServiceTest(t)

		got, err := svc.IsNonWorkingDay(ctx, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
		assert.NoError(t, err)
		assert.False(t, got)
	})
}

func TestCalendarService_BusinessDays(t *testing.T) {
	ctx := context.Background()

	t.Run("monday to friday is five days", func(t *testing.T) {
		_, svc := setupCalendarServiceTest(t)

		// 2026-01-05 is a Monday.
		got, err := svc.BusinessDays(ctx,
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		)
		assert.NoError(t, err)
		assert.Equal(t, 5, got)
	})

	t.Run("holiday inside range is free", func(t *testing.T) {
		repo, svc := setupCalendarServiceTest(t)

		repo.findDatesBetweenFn = func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
			return []time.Time{time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)}, nil
		}

		got, err := svc.BusinessDays(ctx,
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		)
		assert.NoError(t, err)
		assert.Equal(t, 4, got)
	})

	t.Run("range spanning a weekend skips it", func(t *testing.T) {
		_, svc := setupCalendarServiceTest(t)

		got, err := svc.BusinessDays(ctx,
			time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		)
		assert.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("negative inverted range", func(t *testing.T) {
		_, svc := setupCalendarServiceTest(t)

		_, err := svc.BusinessDays(ctx,
			time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		)
		assert.ErrorIs(t, err, calendarerrors.ErrInvalidDateRange)
	})
}

func TestCalendarService_CreateHoliday(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, svc := setupCalendarServiceTest(t)

		repo.createFn = func(ctx context.Context, h *calendar.Holiday) error {
			h.ID = uuid.New()
			assert.Equal(t, "New Year", h.Name)
			assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), h.Date)
			return nil
		}

		resp, err := svc.CreateHoliday(ctx, calendar.CreateHolidayRequest{
			Name: "New Year",
			Date: "2026-01-01",
		})
		assert.NoError(t, err)
		assert.Equal(t, "2026-01-01", resp.Date)
	})

	t.Run("negative duplicate date", func(t *testing.T) {
		repo, svc := setupCalendarServiceTest(t)

		repo.existsOnDateFn = func(ctx context.Context, date time.Time) (bool, error) {
			return true, nil
		}

		_, err := svc.CreateHoliday(ctx, calendar.CreateHolidayRequest{
			Name: "New Year",
			Date: "2026-01-01",
		})
		assert.ErrorIs(t, err, calendarerrors.ErrHolidayAlreadyExists)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		_, svc := setupCalendarServiceTest(t)

		_, err := svc.CreateHoliday(ctx, calendar.CreateHolidayRequest{
			Name: "New Year",
			Date: "01/01/2026",
		})
		assert.ErrorIs(t, err, calendarerrors.ErrInvalidDateFormat)
	})
}

func TestCalendarService_DeleteHoliday(t *testing.T) {
	ctx := context.Background()

	t.Run("negative not found", func(t *testing.T) {
		repo, svc := setupCalendarServiceTest(t)

		repo.findByIDFn = func(ctx context.Context, id string) (*calendar.Holiday, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := svc.DeleteHoliday(ctx, uuid.NewString())
		assert.ErrorIs(t, err, calendarerrors.ErrHolidayNotFound)
	})

	t.Run("negative repo error", func(t *testing.T) {
		repo, svc := setupCalendarServiceTest(t)

		repo.findByIDFn = func(ctx context.Context, id string) (*calendar.Holiday, error) {
			return &calendar.Holiday{ID: uuid.New(), Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
		}
		repo.deleteFn = func(ctx context.Context, id string) error {
			return errors.New("db error")
		}

		err := svc.DeleteHoliday(ctx, uuid.NewString())
		assert.Error(t, err)
	})
}
