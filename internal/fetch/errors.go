package fetch

import (
	"fmt"
	"strings"

	"github.com/jonathan/cover-letter-bot/internal/types"
)

// Error represents a failure to acquire a job page: a browser launch or
// network problem (transport-error) or an HTTP error status (http-failure).
type Error struct {
	URL        string
	Kind       types.Outcome
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExtractionError is returned when the description container is absent.
// Diagnostics lists what the page did contain so the selectors can be updated.
type ExtractionError struct {
	URL         string
	Selectors   []string
	Diagnostics Diagnostics
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not find job details section in %s (selectors: %s)",
		e.URL, strings.Join(e.Selectors, ", "))
}

// ButtonInfo identifies a button element found on the page.
type ButtonInfo struct {
	ID    string `json:"id,omitempty"`
	Class string `json:"class,omitempty"`
}

// Diagnostics summarizes the identifiers present in a page.
type Diagnostics struct {
	IDs     []string     `json:"ids"`
	Buttons []ButtonInfo `json:"buttons"`
}

// String renders the diagnostics as the dump shown to the user.
func (d Diagnostics) String() string {
	var sb strings.Builder
	sb.WriteString("IDs found in the HTML:\n")
	for _, id := range d.IDs {
		sb.WriteString("- ")
		sb.WriteString(id)
		sb.WriteString("\n")
	}
	sb.WriteString("Button class names and IDs found in the HTML:\n")
	for _, b := range d.Buttons {
		sb.WriteString(fmt.Sprintf("- id: %s, class: %s\n", b.ID, b.Class))
	}
	return sb.String()
}
