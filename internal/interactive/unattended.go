package interactive

import (
	"context"
	"fmt"
	"strings"
)

// Unattended answers every prompt with its default, for scripted runs.
// A missing job URL or a default that is not among the options is an error.
type Unattended struct{}

// JobURL returns def, which must be set.
func (Unattended) JobURL(ctx context.Context, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrAborted
	}
	if strings.TrimSpace(def) == "" {
		return "", fmt.Errorf("a job URL is required in non-interactive mode")
	}
	return strings.TrimSpace(def), nil
}

// Choose returns the default option, or "" for a None choice.
func (Unattended) Choose(ctx context.Context, ch Choice) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrAborted
	}
	if ch.AllowNone && (ch.Default == "" || ch.Default == NoneOption) {
		return "", nil
	}
	selected, ok := pick(ch.Options, ch.Default, "")
	if !ok {
		return "", fmt.Errorf("%s: %q is not one of the options (%s)", ch.Label, ch.Default, strings.Join(ch.Options, ", "))
	}
	return selected, nil
}

// Ask returns the default.
func (Unattended) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrAborted
	}
	return q.Default, nil
}

var _ Prompter = Unattended{}
