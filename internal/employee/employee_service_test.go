package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hrdesk/internal/employee"
	employeeerrors "go-hrdesk/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepository struct {
	findAllFn  func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByOfficialEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindPendingOnboarding(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeRepository) UpdateIfOnboardingStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
	return 1, nil
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success exposes employee code", func(t *testing.T) {
		repo := &fakeRepository{}
		id := uuid.New()
		code := "EMP00042"
		repo.findByIDFn = func(ctx context.Context, got string) (*employee.Employee, error) {
			assert.Equal(t, id.String(), got)
			return &employee.Employee{
				ID:               id,
				EmployeeID:       &code,
				FullName:         "Jess Doe",
				OfficialEmail:    "jess@corp.test",
				OnboardingStatus: employee.OnboardingApproved,
			}, nil
		}
		svc := employee.NewService(repo)

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "EMP00042", resp.EmployeeID)
		assert.Equal(t, employee.OnboardingApproved, resp.OnboardingStatus)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := employee.NewService(&fakeRepository{})

		_, err := svc.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative repository error passes through", func(t *testing.T) {
		repo := &fakeRepository{}
		repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, errors.New("connection reset")
		}
		svc := employee.NewService(repo)

		_, err := svc.GetByID(ctx, uuid.New().String())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeRepository{}
		repo.findAllFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: uuid.New(), FullName: "Jess Doe"},
				{ID: uuid.New(), FullName: "Sam Lee"},
			}, nil
		}
		svc := employee.NewService(repo)

		resp, err := svc.GetAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}
