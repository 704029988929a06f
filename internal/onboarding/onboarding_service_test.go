package onboarding_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hrdesk/internal/domain"
	"go-hrdesk/internal/employee"
	"go-hrdesk/internal/events"
	"go-hrdesk/internal/messaging/kafka"
	"go-hrdesk/internal/notifier"
	"go-hrdesk/internal/onboarding"
	onboardingerrors "go-hrdesk/internal/onboarding/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn                     func(ctx context.Context, e *employee.Employee) error
	findByIDFn                   func(ctx context.Context, id string) (*employee.Employee, error)
	findByOfficialEmailFn        func(ctx context.Context, email string) (*employee.Employee, error)
	findPendingOnboardingFn      func(ctx context.Context) ([]employee.Employee, error)
	updateIfOnboardingStatusInFn func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

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
	if f.findPendingOnboardingFn != nil {
		return f.findPendingOnboardingFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) UpdateIfOnboardingStatusIn(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
	if f.updateIfOnboardingStatusInFn != nil {
		return f.updateIfOnboardingStatusInFn(ctx, id, fromStatuses, updates)
	}
	return 1, nil
}

type fakeRecordRepository struct {
	createFn           func(ctx context.Context, rec *onboarding.OnboardingRecord) error
	findByEmployeeIDFn func(ctx context.Context, employeeID string) (*onboarding.OnboardingRecord, error)
	appendFn           func(ctx context.Context, employeeID, newStatus string, entry onboarding.TimelineEntry, payload map[string]any) error
}

func (f *fakeRecordRepository) WithTx(tx *sql.Tx) onboarding.Repository { return f }

func (f *fakeRecordRepository) Create(ctx context.Context, rec *onboarding.OnboardingRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	return nil
}

func (f *fakeRecordRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*onboarding.OnboardingRecord, error) {
	if f.findByEmployeeIDFn != nil {
		return f.findByEmployeeIDFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecordRepository) Append(ctx context.Context, employeeID, newStatus string, entry onboarding.TimelineEntry, payload map[string]any) error {
	if f.appendFn != nil {
		return f.appendFn(ctx, employeeID, newStatus, entry, payload)
	}
	return nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, series string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, series string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, series)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeMailer struct {
	sendFn func(ctx context.Context, msg notifier.Message) error
}

func (f *fakeMailer) Send(ctx context.Context, msg notifier.Message) error {
	if f.sendFn != nil {
		return f.sendFn(ctx, msg)
	}
	return nil
}

type onboardingServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   onboarding.Service
	employees *fakeEmployeeRepository
	records   *fakeRecordRepository
	counter   *fakeCounterRepository
	outbox    *fakeOutboxRepository
	mailer    *fakeMailer
}

func setupOnboardingServiceTest(t *testing.T) *onboardingServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	employees := &fakeEmployeeRepository{}
	records := &fakeRecordRepository{}
	counterRepo := &fakeCounterRepository{}
	outbox := &fakeOutboxRepository{}
	mailer := &fakeMailer{}
	svc := onboarding.NewService(db, employees, records, counterRepo, outbox, mailer)

	return &onboardingServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		employees: employees,
		records:   records,
		counter:   counterRepo,
		outbox:    outbox,
		mailer:    mailer,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestOnboardingService_Initiate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	invite := onboarding.InviteRequest{
		FullName:      "Jess Doe",
		PersonalEmail: "jess@home.test",
		OfficialEmail: "jess@corp.test",
		Department:    "Engineering",
		Position:      "Backend Engineer",
	}

	t.Run("success", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *employee.Employee
		deps.employees.createFn = func(ctx context.Context, e *employee.Employee) error {
			created = e
			return nil
		}
		var mailed notifier.Message
		deps.mailer.sendFn = func(ctx context.Context, msg notifier.Message) error {
			mailed = msg
			return nil
		}

		resp, err := deps.service.Initiate(ctx, actorID, invite)

		assert.NoError(t, err)
		assert.Equal(t, employee.OnboardingPending, resp.OnboardingStatus)
		assert.Equal(t, onboarding.AuditComplete, resp.AuditStatus)
		assert.Empty(t, resp.EmployeeCode)

		assert.NotNil(t, created)
		assert.Equal(t, domain.RoleEmployee, created.Role)
		assert.Equal(t, domain.DefaultLeaveBalance(), created.LeaveBalance)
		assert.NotEmpty(t, created.PasswordHash)
		assert.NotEqual(t, "jess@home.test", created.PasswordHash)

		assert.Equal(t, "jess@home.test", mailed.To)
		assert.Contains(t, mailed.Body, "Temporary password")

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate official email", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByOfficialEmailFn = func(ctx context.Context, email string) (*employee.Employee, error) {
			return &employee.Employee{ID: uuid.New(), OfficialEmail: email}, nil
		}

		_, err := deps.service.Initiate(ctx, actorID, invite)

		assert.ErrorIs(t, err, onboardingerrors.ErrDuplicateOfficialEmail)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid actor id", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Initiate(ctx, "not-a-uuid", invite)
		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidActorID)
	})

	t.Run("audit record failure surfaces partial commit", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.records.createFn = func(ctx context.Context, rec *onboarding.OnboardingRecord) error {
			return errors.New("records store down")
		}

		resp, err := deps.service.Initiate(ctx, actorID, invite)

		assert.NoError(t, err)
		assert.Equal(t, onboarding.AuditPartialCommit, resp.AuditStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestOnboardingService_SubmitDetails(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	details := onboarding.SubmitDetailsRequest{
		Phone:       "+62-811-000-111",
		Address:     "Jl. Sudirman 1, Jakarta",
		DateOfBirth: "1995-04-12",
	}

	t.Run("success", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.employees.updateIfOnboardingStatusInFn = func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
			assert.Equal(t, employeeID, id)
			assert.ElementsMatch(t, []string{employee.OnboardingPending, employee.OnboardingRejected}, fromStatuses)
			assert.Equal(t, employee.OnboardingSubmitted, updates["onboarding_status"])
			assert.Equal(t, details.Phone, updates["phone"])
			return 1, nil
		}

		var appendedStatus string
		var appendedPayload map[string]any
		deps.records.appendFn = func(ctx context.Context, eid, newStatus string, entry onboarding.TimelineEntry, payload map[string]any) error {
			appendedStatus = newStatus
			appendedPayload = payload
			return nil
		}

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{
				ID:               uuid.MustParse(employeeID),
				FullName:         "Jess Doe",
				OfficialEmail:    "jess@corp.test",
				OnboardingStatus: employee.OnboardingSubmitted,
			}, nil
		}

		resp, err := deps.service.SubmitDetails(ctx, employeeID, details)

		assert.NoError(t, err)
		assert.Equal(t, employee.OnboardingSubmitted, resp.OnboardingStatus)
		assert.Equal(t, onboarding.AuditComplete, resp.AuditStatus)
		assert.Equal(t, onboarding.RecordSubmitted, appendedStatus)
		assert.Equal(t, details.Address, appendedPayload["address"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already submitted", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.employees.updateIfOnboardingStatusInFn = func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
			return 0, nil
		}
		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: uuid.MustParse(employeeID), OnboardingStatus: employee.OnboardingSubmitted}, nil
		}

		_, err := deps.service.SubmitDetails(ctx, employeeID, details)

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.employees.updateIfOnboardingStatusInFn = func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
			return 0, nil
		}

		_, err := deps.service.SubmitDetails(ctx, employeeID, details)

		assert.ErrorIs(t, err, onboardingerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestOnboardingService_Review(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	reviewerID := uuid.New().String()

	submitted := func() *employee.Employee {
		return &employee.Employee{
			ID:               uuid.MustParse(employeeID),
			FullName:         "Jess Doe",
			OfficialEmail:    "jess@corp.test",
			OnboardingStatus: employee.OnboardingSubmitted,
		}
	}

	t.Run("success approve assigns employee code", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		approved := false
		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			emp := submitted()
			if approved {
				emp.OnboardingStatus = employee.OnboardingApproved
				code := "EMP00042"
				emp.EmployeeID = &code
			}
			return emp, nil
		}
		deps.counter.getNextValueFn = func(ctx context.Context, series string) (int64, error) {
			return 42, nil
		}
		deps.employees.updateIfOnboardingStatusInFn = func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
			assert.Equal(t, []string{employee.OnboardingSubmitted}, fromStatuses)
			assert.Equal(t, "EMP00042", updates["employee_id"])
			assert.Equal(t, employee.OnboardingApproved, updates["onboarding_status"])
			approved = true
			return 1, nil
		}

		var published kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = event
			return nil
		}

		resp, err := deps.service.Review(ctx, employeeID, reviewerID, onboarding.ReviewRequest{Decision: "approve"})

		assert.NoError(t, err)
		assert.Equal(t, employee.OnboardingApproved, resp.OnboardingStatus)
		assert.Equal(t, "EMP00042", resp.EmployeeCode)
		assert.Equal(t, onboarding.AuditComplete, resp.AuditStatus)
		assert.Equal(t, "onboarding_approved", published.EventType)
		assert.Equal(t, events.OnboardingLifecycleTopic, published.Topic)
		assert.Equal(t, employeeID, published.AggregateID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject stores remarks", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return submitted(), nil
		}
		deps.employees.updateIfOnboardingStatusInFn = func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
			assert.Equal(t, employee.OnboardingRejected, updates["onboarding_status"])
			assert.Equal(t, "references did not check out", updates["onboarding_remarks"])
			return 1, nil
		}

		_, err := deps.service.Review(ctx, employeeID, reviewerID, onboarding.ReviewRequest{
			Decision: "reject",
			Comments: "references did not check out",
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reject without comments", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return submitted(), nil
		}

		_, err := deps.service.Review(ctx, employeeID, reviewerID, onboarding.ReviewRequest{Decision: "reject"})

		assert.ErrorIs(t, err, onboardingerrors.ErrCommentsRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			emp := submitted()
			emp.OnboardingStatus = employee.OnboardingApproved
			return emp, nil
		}

		_, err := deps.service.Review(ctx, employeeID, reviewerID, onboarding.ReviewRequest{Decision: "approve"})

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost review race", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return submitted(), nil
		}
		deps.employees.updateIfOnboardingStatusInFn = func(ctx context.Context, id string, fromStatuses []string, updates map[string]any) (int64, error) {
			return 0, nil
		}

		_, err := deps.service.Review(ctx, employeeID, reviewerID, onboarding.ReviewRequest{Decision: "approve"})

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("audit record failure surfaces partial commit", func(t *testing.T) {
		deps := setupOnboardingServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return submitted(), nil
		}
		deps.records.appendFn = func(ctx context.Context, eid, newStatus string, entry onboarding.TimelineEntry, payload map[string]any) error {
			return errors.New("records store down")
		}

		resp, err := deps.service.Review(ctx, employeeID, reviewerID, onboarding.ReviewRequest{
			Decision: "reject",
			Comments: "incomplete paperwork",
		})

		assert.NoError(t, err)
		assert.Equal(t, onboarding.AuditPartialCommit, resp.AuditStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
