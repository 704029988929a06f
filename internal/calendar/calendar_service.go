package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	calendarerrors "go-hrdesk/internal/calendar/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	holidayCacheKeyPrefix = "holidays:year:"
	holidayCacheTTL       = 12 * time.Hour
	DateLayout            = "2006-01-02"
)

func holidayCacheKey(year int) string {
	return fmt.Sprintf("%s%d", holidayCacheKeyPrefix, year)
}

// Gate is the read-only contract the Leave Ledger consumes: it answers
// whether a day is chargeable and counts chargeable business days in a range.
type Gate interface {
	IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error)
	BusinessDays(ctx context.Context, start, end time.Time) (int, error)
}

type Service interface {
	Gate
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAllHolidays(ctx context.Context) ([]HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	exists, err := s.repo.ExistsOnDate(ctx, date)
	if err != nil {
		s.logger.Error("create holiday existence check failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	if exists {
		return HolidayResponse{}, calendarerrors.ErrHolidayAlreadyExists
	}

	h := &Holiday{Name: req.Name, Date: date}
	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.invalidateYear(ctx, date.Year())
	s.logger.Info("create holiday success",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
	)
	return mapToResponse(*h), nil
}

func (s *service) GetAllHolidays(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) DeleteHoliday(ctx context.Context, id string) error {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return calendarerrors.ErrHolidayNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete holiday failed", zap.String("holiday_id", id), zap.Error(err))
		return err
	}

	s.invalidateYear(ctx, h.Date.Year())
	s.logger.Info("delete holiday success", zap.String("holiday_id", id))
	return nil
}

// IsNonWorkingDay reports whether date is a weekend day or a registered
// holiday. Time-of-day is ignored.
func (s *service) IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	day := Truncate(date)
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true, nil
	}

	holidays, err := s.holidaySet(ctx, day.Year())
	if err != nil {
		return false, err
	}
	_, isHoliday := holidays[day.Format(DateLayout)]
	return isHoliday, nil
}

// BusinessDays counts chargeable days in [start, end] inclusive: every
// calendar day that is neither Saturday/Sunday nor a holiday.
func (s *service) BusinessDays(ctx context.Context, start, end time.Time) (int, error) {
	from, to := Truncate(start), Truncate(end)
	if from.After(to) {
		return 0, calendarerrors.ErrInvalidDateRange
	}

	holidays := map[string]struct{}{}
	for year := from.Year(); year <= to.Year(); year++ {
		set, err := s.holidaySet(ctx, year)
		if err != nil {
			return 0, err
		}
		for d := range set {
			holidays[d] = struct{}{}
		}
	}

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, isHoliday := holidays[d.Format(DateLayout)]; isHoliday {
			continue
		}
		days++
	}
	return days, nil
}

// holidaySet loads the holiday dates of one year, redis-cached and
// singleflight-guarded so a cache miss hits the database once.
func (s *service) holidaySet(ctx context.Context, year int) (map[string]struct{}, error) {
	cacheKey := holidayCacheKey(year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var dates []string
			if json.Unmarshal([]byte(cached), &dates) == nil {
				return toSet(dates), nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		raw, err := s.repo.FindDatesBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}

		dates := make([]string, len(raw))
		for i, d := range raw {
			dates[i] = Truncate(d).Format(DateLayout)
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(dates); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, holidayCacheTTL)
			}
		}
		return dates, nil
	})
	if err != nil {
		return nil, err
	}

	return toSet(v.([]string)), nil
}

func (s *service) invalidateYear(ctx context.Context, year int) {
	if s.rdb == nil {
		return
	}
	cacheKey := holidayCacheKey(year)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate holiday cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func toSet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Truncate drops the time-of-day component, keeping the date in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, calendarerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Name: h.Name,
		Date: h.Date.Format(DateLayout),
	}
}
