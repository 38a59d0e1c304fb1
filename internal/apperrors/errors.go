// Package apperrors defines the typed error taxonomy the psychometric core
// surfaces to its collaborators.
package apperrors

import "fmt"

// Kind identifies one of the fixed error categories the core can return.
type Kind string

const (
	// NoResponses is returned when a learner has no responses for the
	// requested scope.
	NoResponses Kind = "no_responses"
	// UnknownItem is returned when a response references an item that is
	// not present in the calibrated bank.
	UnknownItem Kind = "unknown_item"
	// NumericInstability is returned when Newton-Raphson produces
	// non-finite values twice in a row.
	NumericInstability Kind = "numeric_instability"
	// EmptyExam is returned when an exam specification has zero items.
	EmptyExam Kind = "empty_exam"
	// InvalidThreshold is returned when the passing threshold is outside
	// (0, 1].
	InvalidThreshold Kind = "invalid_threshold"
	// MalformedRecord flags a dropped, non-fatal calibration input row.
	MalformedRecord Kind = "malformed_record"
)

// AppError is a structured, user-visible error with a stable kind code and a
// human-readable message. It never carries process-terminating intent.
type AppError struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *AppError with the same Kind, so callers
// can use errors.Is(err, apperrors.New(SomeKind, "")).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Newf builds an AppError of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HandleError wraps a plain error into an AppError of kind "internal_error",
// using defaultMessage as its message when non-empty and the error's own
// text otherwise. Existing AppErrors pass through unchanged.
func HandleError(err error, defaultMessage string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	message := defaultMessage
	if message == "" {
		message = err.Error()
	}
	return &AppError{Kind: "internal_error", Message: message}
}

// Join combines multiple errors into a single AppError, keeping the first
// non-nil kind encountered.
func Join(errs ...error) *AppError {
	var messages []string
	kind := Kind("internal_error")
	seenKind := false
	for _, err := range errs {
		if err == nil {
			continue
		}
		if appErr, ok := err.(*AppError); ok {
			messages = append(messages, appErr.Message)
			if !seenKind {
				kind = appErr.Kind
				seenKind = true
			}
			continue
		}
		messages = append(messages, err.Error())
	}
	if len(messages) == 0 {
		return nil
	}
	return &AppError{Kind: kind, Message: fmt.Sprintf("multiple errors occurred: %v", messages)}
}
