// Package artifacts owns the output directory: it writes generated sources,
// runs the typesetter and removes its auxiliary files.
package artifacts

import "fmt"

// DirError represents a failure to create the output directory.
type DirError struct {
	Path  string
	Cause error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("output directory %s: %v", e.Path, e.Cause)
}

func (e *DirError) Unwrap() error {
	return e.Cause
}

// WriteError represents a failure to write an artifact.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// RenderError represents a typesetter failure. Stdout and Stderr hold the
// typesetter's output so it can be shown to the user.
type RenderError struct {
	Message string
	Stdout  string
	Stderr  string
	LogPath string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render failed: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// CleanupWarning reports an auxiliary file that could not be removed.
// It never fails the pipeline.
type CleanupWarning struct {
	Path  string
	Cause error
}

func (e *CleanupWarning) Error() string {
	return fmt.Sprintf("could not remove %s: %v", e.Path, e.Cause)
}

func (e *CleanupWarning) Unwrap() error {
	return e.Cause
}
