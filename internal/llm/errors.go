package llm

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when the endpoint answers without any choice.
var ErrEmpty = errors.New("generation returned no content")

// UnavailableError reports a transport, authentication or API failure.
type UnavailableError struct {
	Provider   Provider
	Message    string
	StatusCode int
	Cause      error
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s generation unavailable: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
