package interactive

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_AskReturnsAnswerOrDefault(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("  concise \n\n"), &out, false)
	ctx := context.Background()

	tone, err := c.Ask(ctx, Question{Label: "Enter the tone", Default: "formal"})
	require.NoError(t, err)
	assert.Equal(t, "concise", tone)

	focus, err := c.Ask(ctx, Question{Label: "Enter the focus", Default: ""})
	require.NoError(t, err)
	assert.Equal(t, "", focus)

	assert.Contains(t, out.String(), "Enter the tone (default: formal):")
}

func TestConsole_JobURL(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("https://www.linkedin.com/jobs/view/1\n"), &out, true)

	url, err := c.JobURL(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", url)
	assert.Contains(t, out.String(), "[DEBUG MODE]")
}

func TestConsole_ChooseByNumberNameAndDefault(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("2\nEXAMPLE_CV.tex\n\n"), &out, false)
	ctx := context.Background()
	choice := Choice{
		Label:   "Select your CV template",
		Options: []string{"example_cv.tex", "other_cv.tex"},
		Default: "example_cv.tex",
	}

	got, err := c.Choose(ctx, choice)
	require.NoError(t, err)
	assert.Equal(t, "other_cv.tex", got)

	got, err = c.Choose(ctx, choice)
	require.NoError(t, err)
	assert.Equal(t, "example_cv.tex", got)

	got, err = c.Choose(ctx, choice)
	require.NoError(t, err)
	assert.Equal(t, "example_cv.tex", got)

	assert.Contains(t, out.String(), "* 1) example_cv.tex")
}

func TestConsole_ChooseNoneSentinel(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("\n3\n"), &out, false)
	ctx := context.Background()
	choice := Choice{
		Label:     "Select a cover letter template (or None)",
		Options:   []string{"letter_a.tex", "letter_b.tex"},
		AllowNone: true,
	}

	got, err := c.Choose(ctx, choice)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = c.Choose(ctx, choice)
	require.NoError(t, err)
	assert.Equal(t, "letter_b.tex", got)
	assert.Contains(t, out.String(), "1) None")
}

func TestConsole_ChooseRepeatsOnInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("7\nmissing.tex\n1\n"), &out, false)

	got, err := c.Choose(context.Background(), Choice{Label: "Pick", Options: []string{"a.tex"}})
	require.NoError(t, err)
	assert.Equal(t, "a.tex", got)
	assert.Equal(t, 2, strings.Count(out.String(), "is not one of the options"))
}

func TestConsole_ChooseWithoutOptions(t *testing.T) {
	c := NewConsole(strings.NewReader(""), io.Discard, false)
	_, err := c.Choose(context.Background(), Choice{Label: "Select your CV template"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAborted)
}

func TestConsole_Abort(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"eof", ""},
		{"quit command", ":q\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConsole(strings.NewReader(tt.input), io.Discard, false)
			_, err := c.Ask(context.Background(), Question{Label: "Enter the tone"})
			assert.ErrorIs(t, err, ErrAborted)
		})
	}
}

func TestConsole_LastLineWithoutNewline(t *testing.T) {
	c := NewConsole(strings.NewReader("formal"), io.Discard, false)
	ctx := context.Background()

	got, err := c.Ask(ctx, Question{Label: "Enter the tone"})
	require.NoError(t, err)
	assert.Equal(t, "formal", got)

	_, err = c.Ask(ctx, Question{Label: "Enter the focus"})
	assert.ErrorIs(t, err, ErrAborted)
}

func TestConsole_ContextCancelUnblocksPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	c := NewConsole(pr, io.Discard, false)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Ask(ctx, Question{Label: "Enter the tone"})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrAborted)
	case <-time.After(5 * time.Second):
		t.Fatal("prompt did not return after cancellation")
	}
}

func TestConsole_WelcomeAndStatus(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, true)

	c.Welcome()
	c.Status("Starting to scrape job description...")
	c.Success("done")
	c.Failure("boom")

	text := out.String()
	assert.Contains(t, text, "Welcome to Cover Letter Bot!")
	assert.Contains(t, text, "DEBUG MODE")
	assert.Contains(t, text, "Starting to scrape job description...")
	assert.Contains(t, text, "boom")
}
