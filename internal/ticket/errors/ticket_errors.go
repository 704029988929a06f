package ticketerrors

import (
	"net/http"

	"go-hrdesk/internal/shared/apperror"
)

var (
	ErrTicketNotFound = apperror.New(
		apperror.CodeNotFound,
		"ticket not found",
		http.StatusNotFound,
	)
	ErrInvalidTicketID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid ticket id",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"ticket is not in a state that allows this action",
		http.StatusBadRequest,
	)
	ErrInvalidAssignee = apperror.New(
		apperror.CodeInvalidAssignee,
		"tickets may only be assigned to hr or admin users",
		http.StatusBadRequest,
	)
	ErrAlreadyRated = apperror.New(
		apperror.CodeAlreadyRated,
		"this ticket has already been rated",
		http.StatusConflict,
	)
	ErrNotResolved = apperror.New(
		apperror.CodeInvalidState,
		"only a resolved or closed ticket can be rated",
		http.StatusBadRequest,
	)
	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		"you may only act on your own tickets",
		http.StatusForbidden,
	)
)
