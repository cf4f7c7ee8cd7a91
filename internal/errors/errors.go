package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a leadbook error code.
type ErrorCode string

const (
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"         // 400
	ErrPaymentRequiresClosed ErrorCode = "PAYMENT_REQUIRES_CLOSED" // 400
	ErrNotFound              ErrorCode = "NOT_FOUND"               // 404
	ErrFileNotFound          ErrorCode = "FILE_NOT_FOUND"          // 404
	ErrImportInProgress      ErrorCode = "IMPORT_IN_PROGRESS"      // 409
	ErrInvalidFile           ErrorCode = "INVALID_FILE"            // 422
	ErrCancelled             ErrorCode = "CANCELLED"               // 499
	ErrInternal              ErrorCode = "INTERNAL"                // 500
)

// InvalidFileMessage is shown to the user when a spreadsheet cannot be decoded.
const InvalidFileMessage = "Arquivo Excel inválido ou corrompido"

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewPaymentRequiresClosed creates a 400 error when a payment method is set on an open deal.
func NewPaymentRequiresClosed(id string) *Error {
	return &Error{
		Code:    ErrPaymentRequiresClosed,
		Status:  400,
		Message: fmt.Sprintf("payment method can only be set on closed clients: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewNotFound creates a 404 error for when a client cannot be found.
func NewNotFound(identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("client not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *Error {
	return &Error{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewImportInProgress creates a 409 error when a second import is started.
func NewImportInProgress() *Error {
	return &Error{
		Code:    ErrImportInProgress,
		Status:  409,
		Message: "another import is already running",
	}
}

// NewInvalidFile creates a 422 error for an unreadable or corrupt spreadsheet.
// The cause is kept for logging; the message is what the user sees.
func NewInvalidFile(cause error) *Error {
	e := &Error{
		Code:    ErrInvalidFile,
		Status:  422,
		Message: InvalidFileMessage,
		cause:   cause,
	}
	if cause != nil {
		e.Details = map[string]any{"reason": cause.Error()}
	}
	return e
}

// NewCancelled creates a 499 error when an operation is cancelled.
func NewCancelled(op string) *Error {
	return &Error{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the original error goes into Details for logging.
func NewInternal(err error) *Error {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
		cause:   err,
	}
}

// Is checks if an error (or anything it wraps) is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}
