package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can compare against the predefined values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound             = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden            = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized         = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict             = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation           = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal             = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss            = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrMissingScope         = New("MISSING_SCOPE", http.StatusBadRequest, "caller has no organization scope")
	ErrReferentialIntegrity = New("REFERENTIAL_INTEGRITY", http.StatusBadRequest, "artifact references are invalid for this organization")
	ErrInvalidTransition    = New("INVALID_TRANSITION", http.StatusBadRequest, "operation not allowed from current status")
	ErrEmptyContent         = New("EMPTY_CONTENT", http.StatusBadRequest, "submission has no artifacts")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	if err.Details != nil {
		clone.Details = make(map[string]interface{}, len(err.Details))
		for k, v := range err.Details {
			clone.Details[k] = v
		}
	}
	return &clone
}

// WithDetails returns a copy of err carrying the provided details.
func WithDetails(err *Error, message string, details map[string]interface{}) *Error {
	clone := Clone(err, message)
	if clone == nil {
		return nil
	}
	if clone.Details == nil {
		clone.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		clone.Details[k] = v
	}
	return clone
}

// InvalidTransition reports an operation attempted from a status outside its allowed sources.
func InvalidTransition(currentStatus, operation string) *Error {
	return WithDetails(ErrInvalidTransition,
		fmt.Sprintf("cannot %s a submission with status %s", operation, currentStatus),
		map[string]interface{}{"current_status": currentStatus, "operation": operation},
	)
}

// ReferentialIntegrity reports artifact ids that are missing from the catalog or owned by another organization.
func ReferentialIntegrity(missing, foreign []string) *Error {
	if missing == nil {
		missing = []string{}
	}
	if foreign == nil {
		foreign = []string{}
	}
	return WithDetails(ErrReferentialIntegrity, "", map[string]interface{}{
		"missing_ids": missing,
		"foreign_ids": foreign,
	})
}
