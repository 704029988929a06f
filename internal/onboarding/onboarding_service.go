package onboarding

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hrdesk/internal/domain"
	"go-hrdesk/internal/employee"
	"go-hrdesk/internal/events"
	"go-hrdesk/internal/messaging/kafka"
	"go-hrdesk/internal/notifier"
	onboardingerrors "go-hrdesk/internal/onboarding/errors"
	"go-hrdesk/internal/shared/apperror"
	"go-hrdesk/internal/shared/contextutil"
	"go-hrdesk/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Initiate(ctx context.Context, actorID string, req InviteRequest) (OnboardingResponse, error)
	SubmitDetails(ctx context.Context, employeeID string, req SubmitDetailsRequest) (OnboardingResponse, error)
	Review(ctx context.Context, employeeID, reviewerID string, req ReviewRequest) (OnboardingResponse, error)
	GetPending(ctx context.Context) ([]employee.EmployeeResponse, error)
	GetRecord(ctx context.Context, employeeID string) (RecordResponse, error)
}

type service struct {
	db        *sql.DB
	employees employee.Repository
	records   Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	mailer    notifier.Mailer
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	employees employee.Repository,
	records Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	mailer notifier.Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("onboarding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.service")
	}
	if mailer == nil {
		mailer = notifier.NopMailer{}
	}
	return &service{
		db:        db,
		employees: employees,
		records:   records,
		counter:   counterRepo,
		outbox:    outboxRepo,
		mailer:    mailer,
		logger:    l,
	}
}

// Initiate creates the employee in pending state with default leave balances
// and temporary credentials, then opens the companion audit record.
func (s *service) Initiate(ctx context.Context, actorID string, req InviteRequest) (OnboardingResponse, error) {
	s.logger.Debug("initiate onboarding requested",
		zap.String("actor_id", actorID),
		zap.String("official_email", req.OfficialEmail),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return OnboardingResponse{}, onboardingerrors.ErrInvalidActorID
	}

	if _, err := s.employees.FindByOfficialEmail(ctx, req.OfficialEmail); err == nil {
		return OnboardingResponse{}, onboardingerrors.ErrDuplicateOfficialEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("initiate onboarding email lookup failed", zap.Error(err))
		return OnboardingResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleEmployee
	}

	tempPassword := generateTempPassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return OnboardingResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("initiate onboarding begin tx failed", zap.Error(err))
		return OnboardingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.employees.WithTx(tx)

	emp := &employee.Employee{
		ID:               uuid.New(),
		FullName:         req.FullName,
		PersonalEmail:    req.PersonalEmail,
		OfficialEmail:    req.OfficialEmail,
		Role:             role,
		PasswordHash:     string(hash),
		IsActive:         true,
		Department:       req.Department,
		Position:         req.Position,
		OnboardingStatus: employee.OnboardingPending,
		LeaveBalance:     domain.DefaultLeaveBalance(),
	}

	if err := qtx.Create(ctx, emp); err != nil {
		if isUniqueViolation(err) {
			return OnboardingResponse{}, onboardingerrors.ErrDuplicateOfficialEmail
		}
		s.logger.Error("initiate onboarding persist failed", zap.Error(err))
		return OnboardingResponse{}, storageFailure(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("initiate onboarding commit failed", zap.Error(err))
		return OnboardingResponse{}, storageFailure(err)
	}

	// The employee row is the source of truth; the audit record is written
	// after it and its failure is surfaced, not hidden, as a partial commit.
	auditStatus := AuditComplete
	rec := &OnboardingRecord{
		EmployeeID: emp.ID,
		Status:     RecordInvited,
		Timeline: []TimelineEntry{{
			Action:    ActionInvited,
			Actor:     actorID,
			Timestamp: time.Now().UTC(),
			Details:   "invited with official email " + req.OfficialEmail,
		}},
	}
	if err := s.records.Create(ctx, rec); err != nil {
		s.logger.Error("initiate onboarding audit record failed",
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
		auditStatus = AuditPartialCommit
	}

	s.notify(ctx, notifier.Message{
		To:      req.PersonalEmail,
		Subject: "Your onboarding has started",
		Body: fmt.Sprintf(
			"Hi %s,\n\nAn account has been created for you.\nLogin: %s\nTemporary password: %s\n\nPlease sign in and submit your onboarding details.\n",
			req.FullName, req.OfficialEmail, tempPassword,
		),
	})

	s.logger.Info("initiate onboarding success",
		zap.String("employee_id", emp.ID.String()),
		zap.String("official_email", req.OfficialEmail),
	)
	return mapToOnboardingResponse(*emp, auditStatus), nil
}

// SubmitDetails is legal only from pending or rejected, enforced by a
// conditional write so concurrent submissions cannot both succeed.
func (s *service) SubmitDetails(ctx context.Context, employeeID string, req SubmitDetailsRequest) (OnboardingResponse, error) {
	s.logger.Debug("submit onboarding details requested", zap.String("employee_id", employeeID))

	if _, err := uuid.Parse(employeeID); err != nil {
		return OnboardingResponse{}, onboardingerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit onboarding begin tx failed", zap.Error(err))
		return OnboardingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.employees.WithTx(tx)
	now := time.Now().UTC()

	rows, err := qtx.UpdateIfOnboardingStatusIn(ctx, employeeID,
		[]string{employee.OnboardingPending, employee.OnboardingRejected},
		map[string]any{
			"phone":                   req.Phone,
			"onboarding_status":       employee.OnboardingSubmitted,
			"onboarding_submitted_at": now,
		},
	)
	if err != nil {
		s.logger.Error("submit onboarding persist failed", zap.Error(err))
		return OnboardingResponse{}, storageFailure(err)
	}
	if rows == 0 {
		if _, err := s.employees.FindByID(ctx, employeeID); errors.Is(err, gorm.ErrRecordNotFound) {
			return OnboardingResponse{}, onboardingerrors.ErrEmployeeNotFound
		}
		s.logger.Warn("submit onboarding rejected by state guard", zap.String("employee_id", employeeID))
		return OnboardingResponse{}, onboardingerrors.ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit onboarding commit failed", zap.Error(err))
		return OnboardingResponse{}, storageFailure(err)
	}

	auditStatus := AuditComplete
	entry := TimelineEntry{
		Action:    ActionSubmitted,
		Actor:     employeeID,
		Timestamp: now,
	}
	if err := s.records.Append(ctx, employeeID, RecordSubmitted, entry, submittedPayload(req)); err != nil {
		s.logger.Error("submit onboarding audit record failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		auditStatus = AuditPartialCommit
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return OnboardingResponse{}, err
	}

	s.logger.Info("submit onboarding success", zap.String("employee_id", employeeID))
	return mapToOnboardingResponse(*emp, auditStatus), nil
}

// Review decides a submitted onboarding. Approval assigns the EMP identifier
// from the atomic counter and queues the welcome event through the outbox.
func (s *service) Review(ctx context.Context, employeeID, reviewerID string, req ReviewRequest) (OnboardingResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("review onboarding requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("reviewer_id", reviewerID),
		zap.String("decision", req.Decision),
	)

	if _, err := uuid.Parse(employeeID); err != nil {
		return OnboardingResponse{}, onboardingerrors.ErrInvalidEmployeeID
	}
	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return OnboardingResponse{}, onboardingerrors.ErrInvalidActorID
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OnboardingResponse{}, onboardingerrors.ErrEmployeeNotFound
		}
		return OnboardingResponse{}, err
	}
	if emp.OnboardingStatus != employee.OnboardingSubmitted {
		return OnboardingResponse{}, onboardingerrors.ErrInvalidTransition
	}
	if req.Decision == "reject" && strings.TrimSpace(req.Comments) == "" {
		return OnboardingResponse{}, onboardingerrors.ErrCommentsRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review onboarding begin tx failed", zap.Error(err))
		return OnboardingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.employees.WithTx(tx)
	now := time.Now().UTC()

	var recordStatus string
	entry := TimelineEntry{Actor: reviewerID, Timestamp: now, Details: req.Comments}

	if req.Decision == "approve" {
		nextVal, err := s.counter.GetNextValue(ctx, counter.SeriesEmployeeID)
		if err != nil {
			s.logger.Error("review onboarding employee id sequence failed", zap.Error(err))
			return OnboardingResponse{}, storageFailure(err)
		}
		code := fmt.Sprintf("EMP%05d", nextVal)

		rows, err := qtx.UpdateIfOnboardingStatusIn(ctx, employeeID,
			[]string{employee.OnboardingSubmitted},
			map[string]any{
				"employee_id":           code,
				"onboarding_status":     employee.OnboardingApproved,
				"onboarding_decided_at": now,
				"onboarding_decided_by": reviewerUUID,
			},
		)
		if err != nil {
			if isUniqueViolation(err) {
				return OnboardingResponse{}, apperror.ErrStorageFailure
			}
			s.logger.Error("review onboarding persist failed", zap.Error(err))
			return OnboardingResponse{}, storageFailure(err)
		}
		if rows == 0 {
			// Another reviewer decided first.
			return OnboardingResponse{}, onboardingerrors.ErrInvalidTransition
		}

		event := events.OnboardingApprovedEvent{
			EventType:     "onboarding_approved",
			RequestID:     rid,
			EmployeeID:    employeeID,
			EmployeeCode:  code,
			OfficialEmail: emp.OfficialEmail,
			FullName:      emp.FullName,
			OccurredAt:    now,
		}
		if s.outbox != nil {
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("marshal onboarding_approved event failed", zap.Error(err))
				return OnboardingResponse{}, err
			}
			if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
				ID:            uuid.NewString(),
				RequestID:     rid,
				AggregateType: "employee",
				AggregateID:   employeeID,
				EventType:     event.EventType,
				Topic:         events.OnboardingLifecycleTopic,
				Payload:       payload,
				Status:        kafka.OutboxStatusPending,
			}); err != nil {
				s.logger.Error("review onboarding outbox persist failed", zap.Error(err))
				return OnboardingResponse{}, storageFailure(err)
			}
		}

		recordStatus = RecordApproved
		entry.Action = ActionApproved
	} else {
		rows, err := qtx.UpdateIfOnboardingStatusIn(ctx, employeeID,
			[]string{employee.OnboardingSubmitted},
			map[string]any{
				"onboarding_status":     employee.OnboardingRejected,
				"onboarding_decided_at": now,
				"onboarding_decided_by": reviewerUUID,
				"onboarding_remarks":    req.Comments,
			},
		)
		if err != nil {
			s.logger.Error("review onboarding persist failed", zap.Error(err))
			return OnboardingResponse{}, storageFailure(err)
		}
		if rows == 0 {
			return OnboardingResponse{}, onboardingerrors.ErrInvalidTransition
		}

		recordStatus = RecordRejected
		entry.Action = ActionRejected
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review onboarding commit failed", zap.Error(err))
		return OnboardingResponse{}, storageFailure(err)
	}

	auditStatus := AuditComplete
	if err := s.records.Append(ctx, employeeID, recordStatus, entry, nil); err != nil {
		s.logger.Error("review onboarding audit record failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		auditStatus = AuditPartialCommit
	}

	updated, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return OnboardingResponse{}, err
	}

	s.logger.Info("review onboarding success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("decision", req.Decision),
	)
	return mapToOnboardingResponse(*updated, auditStatus), nil
}

// GetPending lists submitted onboardings oldest-first so reviewers take the
// longest-waiting candidate first.
func (s *service) GetPending(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employees.FindPendingOnboarding(ctx)
	if err != nil {
		s.logger.Error("get pending onboardings failed", zap.Error(err))
		return nil, err
	}
	return employee.MapToListResponse(employees), nil
}

func (s *service) GetRecord(ctx context.Context, employeeID string) (RecordResponse, error) {
	rec, err := s.records.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, onboardingerrors.ErrRecordNotFound
		}
		return RecordResponse{}, err
	}
	return RecordResponse{
		EmployeeID:       rec.EmployeeID.String(),
		Status:           rec.Status,
		SubmittedPayload: rec.SubmittedPayload,
		Timeline:         rec.Timeline,
	}, nil
}

// notify is fire-and-forget: a mail failure is logged and swallowed, never
// surfaced to the workflow caller.
func (s *service) notify(ctx context.Context, msg notifier.Message) {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("onboarding notification failed",
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}
}

func submittedPayload(req SubmitDetailsRequest) map[string]any {
	payload := map[string]any{
		"phone":         req.Phone,
		"address":       req.Address,
		"date_of_birth": req.DateOfBirth,
	}
	if req.EmergencyContact != "" {
		payload["emergency_contact"] = req.EmergencyContact
	}
	for k, v := range req.Extra {
		payload[k] = v
	}
	return payload
}

func generateTempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func storageFailure(err error) error {
	return apperror.Wrap(err, apperror.CodeStorageFailure, apperror.ErrStorageFailure.Message, apperror.ErrStorageFailure.HTTPStatus)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToOnboardingResponse(e employee.Employee, auditStatus string) OnboardingResponse {
	resp := OnboardingResponse{
		EmployeeID:       e.ID.String(),
		FullName:         e.FullName,
		OfficialEmail:    e.OfficialEmail,
		OnboardingStatus: e.OnboardingStatus,
		AuditStatus:      auditStatus,
	}
	if e.EmployeeID != nil {
		resp.EmployeeCode = *e.EmployeeID
	}
	if e.OnboardingRemarks != nil {
		resp.Remarks = *e.OnboardingRemarks
	}
	return resp
}
