package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrdesk/internal/calendar"
	calendarerrors "go-hrdesk/internal/calendar/errors"
	"go-hrdesk/internal/domain"
	"go-hrdesk/internal/employee"
	employeeerrors "go-hrdesk/internal/employee/errors"
	"go-hrdesk/internal/events"
	leaveerrors "go-hrdesk/internal/leave/errors"
	"go-hrdesk/internal/messaging/kafka"
	"go-hrdesk/internal/shared/apperror"
	"go-hrdesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Apply(ctx context.Context, employeeID string, req ApplyRequest) (LeaveResponse, error)
	Decide(ctx context.Context, requestID, approverID string, req DecideRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, requestID, employeeID string) (LeaveResponse, error)
	Summary(ctx context.Context, employeeID string) (SummaryResponse, error)
	GetOwn(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id, requesterID, requesterRole string) (LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	requests  Repository
	employees employee.Repository
	gate      calendar.Gate
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	requests Repository,
	employees employee.Repository,
	gate calendar.Gate,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		requests:  requests,
		employees: employees,
		gate:      gate,
		outbox:    outboxRepo,
		logger:    l,
	}
}

// Apply validates and records a new leave request in pending state. Balances
// are untouched here: taken days are derived from approved requests only.
func (s *service) Apply(ctx context.Context, employeeID string, req ApplyRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
	)

	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, calendarerrors.ErrInvalidDateFormat
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, calendarerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if start.Before(calendar.Truncate(time.Now())) {
		return LeaveResponse{}, leaveerrors.ErrStartDateInPast
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}
	if !emp.Onboarded() {
		return LeaveResponse{}, employeeerrors.ErrOnboardingIncomplete
	}

	totalDays, err := s.gate.BusinessDays(ctx, start, end)
	if err != nil {
		s.logger.Error("apply leave business day count failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	available, err := s.availableDays(ctx, emp, req.LeaveType, start.Year())
	if err != nil {
		return LeaveResponse{}, err
	}
	if totalDays > available {
		s.logger.Warn("apply leave rejected on balance",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", req.LeaveType),
			zap.Int("requested", totalDays),
			zap.Int("available", available),
		)
		return LeaveResponse{}, leaveerrors.InsufficientBalance(req.LeaveType, available)
	}

	overlapping, err := s.requests.HasOverlapping(ctx, employeeID, start, end)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlapping {
		return LeaveResponse{}, leaveerrors.ErrOverlappingRequest
	}

	leaveReq := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: empUUID,
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Status:     StatusPending,
		Reason:     req.Reason,
	}
	if err := s.requests.Create(ctx, leaveReq); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, storageFailure(err)
	}

	s.logger.Info("apply leave success",
		zap.String("leave_id", leaveReq.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", totalDays),
	)
	return mapToLeaveResponse(*leaveReq), nil
}

// Decide approves or rejects a pending request. The transition is a
// conditional write so two concurrent decisions cannot both win, and the
// decision event rides the same transaction through the outbox.
func (s *service) Decide(ctx context.Context, requestID, approverID string, req DecideRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", requestID),
		zap.String("approver_id", approverID),
		zap.String("decision", req.Decision),
	)

	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, apperror.InvalidField("approver id")
	}
	if req.Decision == "reject" && req.Reason == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	leaveReq, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if leaveReq.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	emp, err := s.employees.FindByID(ctx, leaveReq.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	newStatus := StatusApproved
	if req.Decision == "reject" {
		newStatus = StatusRejected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.requests.WithTx(tx)
	now := time.Now().UTC()

	if newStatus == StatusApproved {
		// Balance is re-validated against committed approvals inside the
		// transaction, not the value read before it.
		available, err := s.availableDaysTx(ctx, qtx, emp, leaveReq.LeaveType, leaveReq.StartDate.Year())
		if err != nil {
			return LeaveResponse{}, err
		}
		if leaveReq.TotalDays > available {
			return LeaveResponse{}, leaveerrors.InsufficientBalance(leaveReq.LeaveType, available)
		}
	}

	updates := map[string]any{
		"status":      newStatus,
		"approver_id": approverUUID,
		"decided_at":  now,
	}
	if newStatus == StatusRejected {
		updates["rejection_reason"] = req.Reason
	}

	rows, err := qtx.UpdateIfStatusIn(ctx, requestID, []string{StatusPending}, updates)
	if err != nil {
		s.logger.Error("decide leave persist failed", zap.Error(err))
		return LeaveResponse{}, storageFailure(err)
	}
	if rows == 0 {
		// Another decision landed first.
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	if s.outbox != nil {
		event := events.LeaveDecidedEvent{
			EventType:     "leave_decided",
			RequestID:     rid,
			LeaveID:       requestID,
			EmployeeID:    leaveReq.EmployeeID.String(),
			OfficialEmail: emp.OfficialEmail,
			LeaveType:     leaveReq.LeaveType,
			Status:        newStatus,
			TotalDays:     leaveReq.TotalDays,
			OccurredAt:    now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal leave_decided event failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave_request",
			AggregateID:   requestID,
			EventType:     event.EventType,
			Topic:         events.LeaveLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("decide leave outbox persist failed", zap.Error(err))
			return LeaveResponse{}, storageFailure(err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.Error(err))
		return LeaveResponse{}, storageFailure(err)
	}

	updated, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", requestID),
		zap.String("status", newStatus),
	)
	return mapToLeaveResponse(*updated), nil
}

// Cancel is owner-only and legal from pending or approved. An approved leave
// that has already started stays on the books.
func (s *service) Cancel(ctx context.Context, requestID, employeeID string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", requestID),
		zap.String("employee_id", employeeID),
	)

	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	leaveReq, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if leaveReq.EmployeeID.String() != employeeID {
		return LeaveResponse{}, leaveerrors.ErrPermissionDenied
	}
	if leaveReq.Status == StatusRejected || leaveReq.Status == StatusCancelled {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}
	if leaveReq.Status == StatusApproved && leaveReq.StartDate.Before(calendar.Truncate(time.Now())) {
		return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyStarted
	}

	rows, err := s.requests.UpdateIfStatusIn(ctx, requestID,
		[]string{StatusPending, StatusApproved},
		map[string]any{"status": StatusCancelled},
	)
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.Error(err))
		return LeaveResponse{}, storageFailure(err)
	}
	if rows == 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	updated, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success",
		zap.String("leave_id", requestID),
		zap.String("employee_id", employeeID),
	)
	return mapToLeaveResponse(*updated), nil
}

// Summary reports, for the current calendar year, taken and remaining days
// per leave type. Taken is always recomputed from approved requests.
func (s *service) Summary(ctx context.Context, employeeID string) (SummaryResponse, error) {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SummaryResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return SummaryResponse{}, err
	}

	year := time.Now().Year()
	from, to := yearBounds(year)
	taken, err := s.requests.SumApprovedDaysByType(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("leave summary aggregation failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	types := make(map[string]TypeSummary, len(domain.LeaveTypes))
	for _, t := range domain.LeaveTypes {
		balance := emp.LeaveBalance[t]
		types[t] = TypeSummary{
			Balance:   balance,
			Taken:     taken[t],
			Available: balance - taken[t],
		}
	}

	return SummaryResponse{
		EmployeeID: employeeID,
		Year:       year,
		Types:      types,
	}, nil
}

func (s *service) GetOwn(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	requests, err := s.requests.FindByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list own leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToLeaveListResponse(requests), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	requests, err := s.requests.FindPending(ctx)
	if err != nil {
		s.logger.Error("list pending leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToLeaveListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id, requesterID, requesterRole string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	leaveReq, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !domain.IsStaff(requesterRole) && leaveReq.EmployeeID.String() != requesterID {
		return LeaveResponse{}, leaveerrors.ErrPermissionDenied
	}

	return mapToLeaveResponse(*leaveReq), nil
}

func (s *service) availableDays(ctx context.Context, emp *employee.Employee, leaveType string, year int) (int, error) {
	return s.availableDaysTx(ctx, s.requests, emp, leaveType, year)
}

func (s *service) availableDaysTx(ctx context.Context, repo Repository, emp *employee.Employee, leaveType string, year int) (int, error) {
	from, to := yearBounds(year)
	taken, err := repo.SumApprovedDaysByType(ctx, emp.ID.String(), from, to)
	if err != nil {
		s.logger.Error("leave taken aggregation failed", zap.Error(err))
		return 0, err
	}
	return emp.LeaveBalance[leaveType] - taken[leaveType], nil
}

func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}

func storageFailure(err error) error {
	return apperror.Wrap(err, apperror.CodeStorageFailure, apperror.ErrStorageFailure.Message, apperror.ErrStorageFailure.HTTPStatus)
}

func mapToLeaveResponse(req LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         req.ID.String(),
		EmployeeID: req.EmployeeID.String(),
		LeaveType:  req.LeaveType,
		StartDate:  req.StartDate.Format(calendar.DateLayout),
		EndDate:    req.EndDate.Format(calendar.DateLayout),
		TotalDays:  req.TotalDays,
		Status:     req.Status,
		Reason:     req.Reason,
		DecidedAt:  req.DecidedAt,
		CreatedAt:  req.CreatedAt,
	}
	if req.ApproverID != nil {
		resp.ApproverID = req.ApproverID.String()
	}
	if req.RejectionReason != nil {
		resp.RejectionReason = *req.RejectionReason
	}
	return resp
}

func mapToLeaveListResponse(requests []LeaveRequest) []LeaveResponse {
	responses := make([]LeaveResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, mapToLeaveResponse(req))
	}
	return responses
}
