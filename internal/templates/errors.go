// Package templates loads typesetting source files used as CV and exemplar inputs.
package templates

import "fmt"

// NotFoundError is returned when a template path does not exist.
type NotFoundError struct {
	Path  string
	Cause error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// UnreadableError is returned when a template exists but cannot be read or decoded.
type UnreadableError struct {
	Path    string
	Message string
	Cause   error
}

func (e *UnreadableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template unreadable: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("template unreadable: %s: %s", e.Path, e.Message)
}

func (e *UnreadableError) Unwrap() error {
	return e.Cause
}
