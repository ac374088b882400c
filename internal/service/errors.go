package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the HTTP layer can map it
// to a status code without inspecting message text
type Kind int

const (
	// KindValidation marks malformed, missing, or out-of-range input
	KindValidation Kind = iota + 1
	// KindNotFound marks a referenced entity that does not exist
	KindNotFound
	// KindConflict marks a uniqueness violation
	KindConflict
	// KindInternal marks an unexpected failure
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error provides detailed error information for a failed operation
type Error struct {
	Kind Kind   // Failure classification
	Op   string // Operation that failed
	Err  error  // Underlying error or message
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf builds a validation error
func Validationf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotFoundf builds a not-found error
func NotFoundf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

// Conflictf builds a conflict error
func Conflictf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Op: op, Err: fmt.Errorf(format, args...)}
}

// Internal wraps an unexpected failure
func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf extracts the failure classification, defaulting to internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a conflict failure
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// Message returns the underlying message without the op prefix
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
