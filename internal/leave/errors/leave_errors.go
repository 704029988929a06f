package leaveerrors

import (
	"fmt"
	"net/http"

	"go-hrdesk/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"leave cannot start in the past",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not in a state that allows this action",
		http.StatusBadRequest,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeOverlappingRequest,
		"an overlapping leave request already exists",
		http.StatusConflict,
	)
	ErrLeaveAlreadyStarted = apperror.New(
		apperror.CodeLeaveAlreadyStarted,
		"an approved leave that has already started cannot be cancelled",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required when rejecting a leave request",
		http.StatusBadRequest,
	)
	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		"you may only act on your own leave requests",
		http.StatusForbidden,
	)
)

// InsufficientBalance carries the remaining entitlement so the caller can
// show it verbatim.
func InsufficientBalance(leaveType string, available int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("insufficient %s leave balance: %d day(s) available", leaveType, available),
		http.StatusBadRequest,
	)
}
