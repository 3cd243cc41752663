// Package vfserr provides the structured error type the public surface
// returns for lifecycle failures: mount-on-mounted, unmount-on-unmounted,
// mount-point validation, session-creation failures. These never reach
// the kernel; steady-state filesystem errors are errno values returned
// from adapters, not vfserr values.
//
// The shape is adapted from a larger error-code/category system: a
// stable Code for programmatic matching, a Category for grouping, and
// Component/Operation for diagnostics, with Unwrap support so callers
// can still reach the underlying cause with errors.Is/errors.As.
package vfserr

import "fmt"

// Code identifies the kind of lifecycle failure.
type Code string

const (
	CodeAlreadyMounted   Code = "ALREADY_MOUNTED"
	CodeNotMounted       Code = "NOT_MOUNTED"
	CodeInvalidMountPoint Code = "INVALID_MOUNT_POINT"
	CodeMountPointBusy   Code = "MOUNT_POINT_BUSY"
	CodeSessionFailed    Code = "SESSION_FAILED"
	CodeUnmountFailed    Code = "UNMOUNT_FAILED"
	CodeNotConfigured    Code = "NOT_CONFIGURED"
)

// Category groups related codes.
type Category string

const (
	CategoryState     Category = "state"
	CategoryMountPoint Category = "mount_point"
	CategorySession   Category = "session"
)

// Error is the structured error returned by the public surface.
type Error struct {
	Code      Code
	Category  Category
	Component string
	Operation string
	Cause     error
}

func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Operation, e.Code, e.message())
	}
	return fmt.Sprintf("[%s] %s: %v", e.Component, e.Code, e.message())
}

func (e *Error) message() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Code)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Code, so callers can do
// errors.Is(err, vfserr.New(vfserr.CodeAlreadyMounted, ...)).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// New constructs a lifecycle error.
func New(code Code, category Category, component, operation string, cause error) *Error {
	return &Error{Code: code, Category: category, Component: component, Operation: operation, Cause: cause}
}
