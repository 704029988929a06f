package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"go-hrdesk/internal/auth"
	autherrors "go-hrdesk/internal/auth/errors"
	"go-hrdesk/internal/domain"
	"go-hrdesk/internal/employee"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	findByIDFn            func(ctx context.Context, id string) (*employee.Employee, error)
	findByOfficialEmailFn func(ctx context.Context, email string) (*employee.Employee, error)
	updateFn              func(ctx context.Context, e *employee.Employee) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByOfficialEmail(ctx context.Context, email string) (*employee.Employee, error) {
	if f.findByOfficialEmailFn != nil {
		return f.findByOfficialEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindPendingOnboarding(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) UpdateIfOnboardingStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
	return 1, nil
}

func activeEmployee(t *testing.T, password string) *employee.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &employee.Employee{
		ID:               uuid.New(),
		FullName:         "Jess Doe",
		OfficialEmail:    "jess@corp.test",
		Role:             domain.RoleEmployee,
		PasswordHash:     string(hash),
		IsActive:         true,
		OnboardingStatus: employee.OnboardingApproved,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}
		emp := activeEmployee(t, "s3cret-pass")
		repo.findByOfficialEmailFn = func(ctx context.Context, email string) (*employee.Employee, error) {
			assert.Equal(t, "jess@corp.test", email)
			return emp, nil
		}
		svc := auth.NewService(repo)

		access, refresh, resp, err := svc.Login(ctx, "jess@corp.test", "s3cret-pass")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, emp.ID.String(), resp.ID)

		token, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, emp.ID.String(), claims["user_id"])
		assert.Equal(t, domain.RoleEmployee, claims["role"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}
		repo.findByOfficialEmailFn = func(ctx context.Context, email string) (*employee.Employee, error) {
			return activeEmployee(t, "s3cret-pass"), nil
		}
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(ctx, "jess@corp.test", "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email mirrors wrong password", func(t *testing.T) {
		svc := auth.NewService(&fakeEmployeeRepository{})

		_, _, _, err := svc.Login(ctx, "nobody@corp.test", "whatever")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative inactive account", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}
		repo.findByOfficialEmailFn = func(ctx context.Context, email string) (*employee.Employee, error) {
			emp := activeEmployee(t, "s3cret-pass")
			emp.IsActive = false
			return emp, nil
		}
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(ctx, "jess@corp.test", "s3cret-pass")
		assert.ErrorIs(t, err, autherrors.ErrAccountInactive)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success round trip", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}
		emp := activeEmployee(t, "s3cret-pass")
		repo.findByOfficialEmailFn = func(ctx context.Context, email string) (*employee.Employee, error) {
			return emp, nil
		}
		repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			assert.Equal(t, emp.ID.String(), id)
			return emp, nil
		}
		svc := auth.NewService(repo)

		_, refresh, _, err := svc.Login(ctx, "jess@corp.test", "s3cret-pass")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, emp.ID.String(), resp.ID)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeEmployeeRepository{})

		_, _, _, err := svc.Refresh(ctx, "not.a.token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}
		emp := activeEmployee(t, "old-password")
		repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		var saved *employee.Employee
		repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
			saved = e
			return nil
		}
		svc := auth.NewService(repo)

		err := svc.ChangePassword(ctx, emp.ID.String(), auth.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     "brand-new-password",
		})

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("brand-new-password")))
	})

	t.Run("negative wrong current password", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}
		emp := activeEmployee(t, "old-password")
		repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		svc := auth.NewService(repo)

		err := svc.ChangePassword(ctx, emp.ID.String(), auth.ChangePasswordRequest{
			CurrentPassword: "nope",
			NewPassword:     "brand-new-password",
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}
