package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Workflow errors (4xx)
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeOverlappingRequest   = "OVERLAPPING_REQUEST"
	CodeLeaveAlreadyStarted  = "LEAVE_ALREADY_STARTED"
	CodeAlreadyRated         = "ALREADY_RATED"
	CodeInvalidAssignee      = "INVALID_ASSIGNEE"
	CodeOnboardingIncomplete = "ONBOARDING_INCOMPLETE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeStorageFailure     = "STORAGE_FAILURE"
	CodePartialCommit      = "PARTIAL_COMMIT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
