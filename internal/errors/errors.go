package errors

import (
	stderrors "errors"
	"fmt"
	"syscall"

	"github.com/mosiko1234/trayicon/internal/logger"
)

// OSError reports a failed platform call together with the platform's
// last-error code.
type OSError struct {
	Op   string
	Code syscall.Errno
	Err  error
}

func (e *OSError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: os error %d: %v", e.Op, uintptr(e.Code), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OSError) Unwrap() error {
	return e.Err
}

// NewOSError wraps err as an OSError for operation op. The errno is taken
// from err when it carries one.
func NewOSError(op string, err error) error {
	if err == nil {
		return nil
	}

	oe := &OSError{Op: op, Err: err}
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		oe.Code = errno
	}
	return oe
}

// IsOSError reports whether err contains an OSError.
func IsOSError(err error) bool {
	var oe *OSError
	return stderrors.As(err, &oe)
}

// Wrap wraps an error with additional context
func Wrap(err error, context string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	contextMsg := fmt.Sprintf(context, args...)
	return fmt.Errorf("%s: %w", contextMsg, err)
}

// WrapWithLog wraps an error with context and logs it
func WrapWithLog(err error, context string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, context, args...)
	logger.Error("%v", wrapped)
	return wrapped
}

// ComponentError represents an error from a specific component
type ComponentError struct {
	Component string
	Operation string
	Err       error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// NewComponentError creates a new component-specific error
func NewComponentError(component, operation string, err error) error {
	return &ComponentError{
		Component: component,
		Operation: operation,
		Err:       err,
	}
}

// Is and As re-export the standard library helpers so callers need a single
// errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// New re-exports errors.New.
func New(text string) error { return stderrors.New(text) }

// SafeClose safely closes a resource and logs any errors
func SafeClose(closer interface{ Close() error }, resourceName string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		logger.Warn("Failed to close %s: %v", resourceName, err)
	}
}
