package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hrdesk/internal/domain"
	"go-hrdesk/internal/employee"
	employeeerrors "go-hrdesk/internal/employee/errors"
	"go-hrdesk/internal/shared/apperror"
	"go-hrdesk/internal/shared/counter"
	ticketerrors "go-hrdesk/internal/ticket/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, employeeID string, req CreateTicketRequest) (TicketResponse, error)
	Assign(ctx context.Context, ticketID, assigneeID, assignerID string) (TicketResponse, error)
	UpdateStatus(ctx context.Context, ticketID, actorID string, req UpdateStatusRequest) (TicketResponse, error)
	Rate(ctx context.Context, ticketID, employeeID string, req RateTicketRequest) (TicketResponse, error)
	Comment(ctx context.Context, ticketID, authorID, authorRole string, req AddCommentRequest) (CommentResponse, error)
	GetByID(ctx context.Context, id, requesterID, requesterRole string) (TicketResponse, error)
	GetOwn(ctx context.Context, employeeID string) ([]TicketResponse, error)
	GetAll(ctx context.Context) ([]TicketResponse, error)
}

type service struct {
	db        *sql.DB
	tickets   Repository
	employees employee.Repository
	counter   counter.Repository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	tickets Repository,
	employees employee.Repository,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ticket.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ticket.service")
	}
	return &service{
		db:        db,
		tickets:   tickets,
		employees: employees,
		counter:   counterRepo,
		logger:    l,
	}
}

// Create opens a ticket for an onboarded employee. The ticket number is
// drawn from the month's counter series; if the unique index still catches a
// duplicate the caller gets a retryable storage failure.
func (s *service) Create(ctx context.Context, employeeID string, req CreateTicketRequest) (TicketResponse, error) {
	s.logger.Debug("create ticket requested",
		zap.String("employee_id", employeeID),
		zap.String("category", req.Category),
	)

	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return TicketResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return TicketResponse{}, err
	}
	if !emp.Onboarded() {
		return TicketResponse{}, employeeerrors.ErrOnboardingIncomplete
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	monthKey := time.Now().UTC().Format("200601")
	seq, err := s.counter.GetNextValue(ctx, counter.TicketSeries(monthKey))
	if err != nil {
		s.logger.Error("create ticket number sequence failed", zap.Error(err))
		return TicketResponse{}, storageFailure(err)
	}

	t := &Ticket{
		ID:           uuid.New(),
		TicketNumber: fmt.Sprintf("TKT-%s-%04d", monthKey, seq),
		EmployeeID:   empUUID,
		Category:     req.Category,
		Priority:     priority,
		Subject:      req.Subject,
		Description:  req.Description,
		Status:       StatusOpen,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("ticket number collision", zap.String("ticket_number", t.TicketNumber))
			return TicketResponse{}, apperror.ErrStorageFailure
		}
		s.logger.Error("create ticket persist failed", zap.Error(err))
		return TicketResponse{}, storageFailure(err)
	}

	s.logger.Info("create ticket success",
		zap.String("ticket_id", t.ID.String()),
		zap.String("ticket_number", t.TicketNumber),
	)
	return mapToTicketResponse(*t, nil), nil
}

// Assign routes a ticket to an hr or admin user and moves it to in-progress.
func (s *service) Assign(ctx context.Context, ticketID, assigneeID, assignerID string) (TicketResponse, error) {
	s.logger.Debug("assign ticket requested",
		zap.String("ticket_id", ticketID),
		zap.String("assignee_id", assigneeID),
	)

	if _, err := uuid.Parse(ticketID); err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidTicketID
	}
	assigneeUUID, err := uuid.Parse(assigneeID)
	if err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidAssignee
	}
	assignerUUID, err := uuid.Parse(assignerID)
	if err != nil {
		return TicketResponse{}, apperror.InvalidField("assigner id")
	}

	t, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, ticketerrors.ErrTicketNotFound
		}
		return TicketResponse{}, err
	}
	if IsTerminal(t.Status) {
		return TicketResponse{}, ticketerrors.ErrInvalidTransition
	}

	assignee, err := s.employees.FindByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, ticketerrors.ErrInvalidAssignee
		}
		return TicketResponse{}, err
	}
	if !domain.IsStaff(assignee.Role) {
		return TicketResponse{}, ticketerrors.ErrInvalidAssignee
	}

	rows, err := s.tickets.UpdateIfStatusIn(ctx, ticketID,
		[]string{StatusOpen, StatusInProgress},
		map[string]any{
			"assigned_to": assigneeUUID,
			"status":      StatusInProgress,
		},
	)
	if err != nil {
		s.logger.Error("assign ticket persist failed", zap.Error(err))
		return TicketResponse{}, storageFailure(err)
	}
	if rows == 0 {
		return TicketResponse{}, ticketerrors.ErrInvalidTransition
	}

	// Advisory audit trail; its failure never undoes the assignment.
	audit := &TicketComment{
		ID:       uuid.New(),
		TicketID: t.ID,
		AuthorID: assignerUUID,
		Text:     fmt.Sprintf("ticket assigned to %s", assignee.FullName),
		Internal: true,
	}
	if err := s.tickets.AddComment(ctx, audit); err != nil {
		s.logger.Warn("assign ticket audit comment failed",
			zap.String("ticket_id", ticketID),
			zap.Error(err),
		)
	}

	updated, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return TicketResponse{}, err
	}

	s.logger.Info("assign ticket success",
		zap.String("ticket_id", ticketID),
		zap.String("assignee_id", assigneeID),
	)
	return mapToTicketResponse(*updated, nil), nil
}

// UpdateStatus transitions a non-terminal ticket. Resolving or closing
// stamps the resolution bookkeeping in the same write.
func (s *service) UpdateStatus(ctx context.Context, ticketID, actorID string, req UpdateStatusRequest) (TicketResponse, error) {
	s.logger.Debug("update ticket status requested",
		zap.String("ticket_id", ticketID),
		zap.String("status", req.Status),
	)

	if _, err := uuid.Parse(ticketID); err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidTicketID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TicketResponse{}, apperror.InvalidField("actor id")
	}

	t, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, ticketerrors.ErrTicketNotFound
		}
		return TicketResponse{}, err
	}
	if IsTerminal(t.Status) {
		return TicketResponse{}, ticketerrors.ErrInvalidTransition
	}

	updates := map[string]any{"status": req.Status}
	if req.Status == StatusResolved || req.Status == StatusClosed {
		updates["resolved_by"] = actorUUID
		updates["resolved_at"] = time.Now().UTC()
		if req.Resolution != "" {
			updates["resolution"] = req.Resolution
		}
	}

	rows, err := s.tickets.UpdateIfStatusIn(ctx, ticketID,
		[]string{StatusOpen, StatusInProgress},
		updates,
	)
	if err != nil {
		s.logger.Error("update ticket status persist failed", zap.Error(err))
		return TicketResponse{}, storageFailure(err)
	}
	if rows == 0 {
		return TicketResponse{}, ticketerrors.ErrInvalidTransition
	}

	updated, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return TicketResponse{}, err
	}

	s.logger.Info("update ticket status success",
		zap.String("ticket_id", ticketID),
		zap.String("status", req.Status),
	)
	return mapToTicketResponse(*updated, nil), nil
}

// Rate stores the one-time satisfaction rating on the caller's own resolved
// or closed ticket.
func (s *service) Rate(ctx context.Context, ticketID, employeeID string, req RateTicketRequest) (TicketResponse, error) {
	s.logger.Debug("rate ticket requested",
		zap.String("ticket_id", ticketID),
		zap.Int("rating", req.Rating),
	)

	if _, err := uuid.Parse(ticketID); err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidTicketID
	}

	t, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, ticketerrors.ErrTicketNotFound
		}
		return TicketResponse{}, err
	}
	if t.EmployeeID.String() != employeeID {
		return TicketResponse{}, ticketerrors.ErrPermissionDenied
	}
	if t.Status != StatusResolved && t.Status != StatusClosed {
		return TicketResponse{}, ticketerrors.ErrNotResolved
	}

	rows, err := s.tickets.SetRatingIfUnset(ctx, ticketID, req.Rating, req.Feedback)
	if err != nil {
		s.logger.Error("rate ticket persist failed", zap.Error(err))
		return TicketResponse{}, storageFailure(err)
	}
	if rows == 0 {
		return TicketResponse{}, ticketerrors.ErrAlreadyRated
	}

	updated, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return TicketResponse{}, err
	}

	s.logger.Info("rate ticket success",
		zap.String("ticket_id", ticketID),
		zap.Int("rating", req.Rating),
	)
	return mapToTicketResponse(*updated, nil), nil
}

// Comment appends to the ticket's comment log. Employee authors always
// produce non-internal comments, whatever the request says.
func (s *service) Comment(ctx context.Context, ticketID, authorID, authorRole string, req AddCommentRequest) (CommentResponse, error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return CommentResponse{}, ticketerrors.ErrInvalidTicketID
	}
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return CommentResponse{}, apperror.InvalidField("author id")
	}

	t, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentResponse{}, ticketerrors.ErrTicketNotFound
		}
		return CommentResponse{}, err
	}

	internal := req.Internal
	if !domain.IsStaff(authorRole) {
		if t.EmployeeID.String() != authorID {
			return CommentResponse{}, ticketerrors.ErrPermissionDenied
		}
		internal = false
	}

	comment := &TicketComment{
		ID:       uuid.New(),
		TicketID: t.ID,
		AuthorID: authorUUID,
		Text:     req.Text,
		Internal: internal,
	}
	if err := s.tickets.AddComment(ctx, comment); err != nil {
		s.logger.Error("add ticket comment failed", zap.Error(err))
		return CommentResponse{}, storageFailure(err)
	}

	return mapToCommentResponse(*comment), nil
}

func (s *service) GetByID(ctx context.Context, id, requesterID, requesterRole string) (TicketResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TicketResponse{}, ticketerrors.ErrInvalidTicketID
	}

	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, ticketerrors.ErrTicketNotFound
		}
		return TicketResponse{}, err
	}

	staff := domain.IsStaff(requesterRole)
	if !staff && t.EmployeeID.String() != requesterID {
		return TicketResponse{}, ticketerrors.ErrPermissionDenied
	}

	comments, err := s.tickets.FindComments(ctx, id, staff)
	if err != nil {
		s.logger.Error("list ticket comments failed", zap.Error(err))
		return TicketResponse{}, err
	}

	return mapToTicketResponse(*t, comments), nil
}

func (s *service) GetOwn(ctx context.Context, employeeID string) ([]TicketResponse, error) {
	tickets, err := s.tickets.FindByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list own tickets failed", zap.Error(err))
		return nil, err
	}
	return mapToTicketListResponse(tickets), nil
}

func (s *service) GetAll(ctx context.Context) ([]TicketResponse, error) {
	tickets, err := s.tickets.FindAll(ctx)
	if err != nil {
		s.logger.Error("list tickets failed", zap.Error(err))
		return nil, err
	}
	return mapToTicketListResponse(tickets), nil
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

func mapToCommentResponse(c TicketComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		AuthorID:  c.AuthorID.String(),
		Text:      c.Text,
		Internal:  c.Internal,
		CreatedAt: c.CreatedAt,
	}
}

func mapToTicketResponse(t Ticket, comments []TicketComment) TicketResponse {
	resp := TicketResponse{
		ID:           t.ID.String(),
		TicketNumber: t.TicketNumber,
		EmployeeID:   t.EmployeeID.String(),
		Category:     t.Category,
		Priority:     t.Priority,
		Subject:      t.Subject,
		Description:  t.Description,
		Status:       t.Status,
		ResolvedAt:   t.ResolvedAt,
		Rating:       t.Rating,
		CreatedAt:    t.CreatedAt,
	}
	if t.AssignedTo != nil {
		resp.AssignedTo = t.AssignedTo.String()
	}
	if t.ResolvedBy != nil {
		resp.ResolvedBy = t.ResolvedBy.String()
	}
	if t.Resolution != nil {
		resp.Resolution = *t.Resolution
	}
	if t.Feedback != nil {
		resp.Feedback = *t.Feedback
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, mapToCommentResponse(c))
	}
	return resp
}

func mapToTicketListResponse(tickets []Ticket) []TicketResponse {
	responses := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		responses = append(responses, mapToTicketResponse(t, nil))
	}
	return responses
}
