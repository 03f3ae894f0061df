package errors

import (
	"net/http"

	"stroll/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types.
//
// Only the hard-failure kinds abort an assembly request; every other
// deviation degrades into the itinerary warnings list instead of an error.
var (
	// Input validation errors
	ErrInputValidation = NewBaseError(
		http.StatusBadRequest,
		"INPUT_VALIDATION",
		"Invalid planning request",
		"",
	)

	ErrInvalidTimeBudget = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TIME_BUDGET",
		"Time budget must be a positive number of minutes",
		"",
	)

	ErrInvalidCoordinates = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATES",
		"Start location is outside valid coordinate bounds",
		"",
	)

	ErrInvalidTimeZone = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TIME_ZONE",
		"Unknown IANA time zone",
		"",
	)

	// Ranker input errors
	ErrDimensionMismatch = NewBaseError(
		http.StatusUnprocessableEntity,
		"DIMENSION_MISMATCH",
		"Intent and candidate embeddings have different dimensions",
		"",
	)

	ErrEmptyCandidateSet = NewBaseError(
		http.StatusNotFound,
		"EMPTY_CANDIDATE_SET",
		"No candidate places matched the request",
		"",
	)

	// Sequencer errors
	ErrInsufficientCandidates = NewBaseError(
		http.StatusUnprocessableEntity,
		"INSUFFICIENT_CANDIDATES",
		"Fewer than three stops fit the time budget; try widening filters or the budget",
		"",
	)

	ErrPlanningDeadline = NewBaseError(
		http.StatusGatewayTimeout,
		"PLANNING_DEADLINE_EXCEEDED",
		"Planning ran out of time before a viable route was found",
		"",
	)

	// Geocoding errors
	ErrGeocodeFailed = NewBaseError(
		http.StatusBadRequest,
		"GEOCODE_FAILED",
		"Could not resolve the start address to coordinates",
		"",
	)

	// Embedding errors
	ErrEmbeddingFailed = NewBaseError(
		http.StatusBadGateway,
		"EMBEDDING_FAILED",
		"Could not convert interests into an intent vector",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database query failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
