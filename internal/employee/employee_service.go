package employee

import (
	"context"
	"errors"

	employeeerrors "go-hrdesk/internal/employee/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, err
	}
	return MapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	return MapToResponse(*e), nil
}

// MapToResponse is shared with the onboarding pipeline, which returns
// employee snapshots from its transitions.
func MapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID.String(),
		FullName:         e.FullName,
		PersonalEmail:    e.PersonalEmail,
		OfficialEmail:    e.OfficialEmail,
		Role:             e.Role,
		IsActive:         e.IsActive,
		Department:       e.Department,
		Position:         e.Position,
		Phone:            e.Phone,
		OnboardingStatus: e.OnboardingStatus,
		LeaveBalance:     e.LeaveBalance,
	}
	if e.EmployeeID != nil {
		resp.EmployeeID = *e.EmployeeID
	}
	return resp
}

func MapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = MapToResponse(e)
	}
	return resp
}
