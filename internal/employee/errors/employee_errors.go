package employeeerrors

import (
	"net/http"

	"go-hrdesk/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrDuplicateOfficialEmail = apperror.New(
		apperror.CodeConflict,
		"An employee with this official email already exists",
		http.StatusConflict,
	)
	ErrOnboardingIncomplete = apperror.New(
		apperror.CodeOnboardingIncomplete,
		"Employee onboarding is not complete",
		http.StatusBadRequest,
	)
)
