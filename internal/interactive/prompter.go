// Package interactive collects cover letter preferences from a user.
package interactive

import (
	"context"
	"errors"
)

// ErrAborted is returned when the user ends input (EOF, ":q") or the
// context is cancelled while a prompt is pending.
var ErrAborted = errors.New("aborted by user")

// NoneOption is the sentinel choice meaning "no selection".
const NoneOption = "None"

// Question is a free-text prompt.
type Question struct {
	Label   string
	Default string
}

// Choice is a pick-one prompt over Options.
type Choice struct {
	Label   string
	Options []string
	Default string
	// AllowNone prepends the NoneOption sentinel; selecting it yields "".
	AllowNone bool
}

// Prompter asks the user for preferences. Every method blocks until an
// answer is given, the user aborts, or ctx is done.
type Prompter interface {
	JobURL(ctx context.Context, def string) (string, error)
	Choose(ctx context.Context, c Choice) (string, error)
	Ask(ctx context.Context, q Question) (string, error)
}
