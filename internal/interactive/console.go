package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// QuitCommand aborts the session when entered at any prompt.
const QuitCommand = ":q"

type line struct {
	text string
	err  error
}

// Console is a line-oriented Prompter over a reader and writer.
type Console struct {
	out    io.Writer
	in     *bufio.Reader
	debug  bool
	styles styles

	startOnce sync.Once
	lines     chan line
	mu        sync.Mutex
}

// NewConsole returns a Console reading answers from in and writing prompts
// to out. In debug mode every prompt is tagged.
func NewConsole(in io.Reader, out io.Writer, debug bool) *Console {
	renderer := lipgloss.NewRenderer(out)
	return &Console{
		out:    out,
		in:     bufio.NewReader(in),
		debug:  debug,
		styles: newStyles(renderer, DefaultTheme),
		lines:  make(chan line),
	}
}

// Welcome prints the banner panel.
func (c *Console) Welcome() {
	msg := c.styles.title.Render("Welcome to Cover Letter Bot!")
	if c.debug {
		msg += " " + c.styles.debug.Render("DEBUG MODE")
	}
	c.println(c.styles.panel.Render(msg))
	c.println(c.styles.hint.Render("Enter " + QuitCommand + " at any prompt to quit."))
}

// Status prints an in-progress message.
func (c *Console) Status(msg string) {
	c.println(c.styles.status.Render(msg))
}

// Success prints a completion message.
func (c *Console) Success(msg string) {
	c.println(c.styles.success.Render(msg))
}

// Failure prints an error message.
func (c *Console) Failure(msg string) {
	c.println(c.styles.err.Render(msg))
}

// JobURL asks for the job listing URL.
func (c *Console) JobURL(ctx context.Context, def string) (string, error) {
	return c.Ask(ctx, Question{Label: "Enter the URL of the job listing", Default: def})
}

// Ask prints q and returns the trimmed answer, or q.Default when empty.
func (c *Console) Ask(ctx context.Context, q Question) (string, error) {
	c.print(c.label(q.Label, q.Default) + " ")
	answer, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return q.Default, nil
	}
	return answer, nil
}

// Choose lists the options and accepts a number or an option name.
// Invalid answers are reported and the question is repeated.
func (c *Console) Choose(ctx context.Context, ch Choice) (string, error) {
	options := ch.Options
	if ch.AllowNone {
		options = append([]string{NoneOption}, options...)
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options available for %q", ch.Label)
	}

	def := ch.Default
	if def == "" && ch.AllowNone {
		def = NoneOption
	}

	for {
		c.println(c.label(ch.Label, def))
		for i, opt := range options {
			marker := " "
			if opt == def {
				marker = "*"
			}
			c.println(fmt.Sprintf("  %s %d) %s", marker, i+1, opt))
		}
		c.print(c.styles.prompt.Render("> "))

		answer, err := c.readLine(ctx)
		if err != nil {
			return "", err
		}

		selected, ok := pick(options, answer, def)
		if ok {
			if selected == NoneOption && ch.AllowNone {
				return "", nil
			}
			return selected, nil
		}
		c.Failure(fmt.Sprintf("%q is not one of the options", answer))
	}
}

func pick(options []string, answer, def string) (string, bool) {
	if answer == "" {
		answer = def
	}
	if answer == "" {
		return "", false
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, answer) {
			return opt, true
		}
	}
	return "", false
}

func (c *Console) label(text, def string) string {
	s := c.styles.prompt.Render(text) + c.styles.hint.Render(fmt.Sprintf(" (default: %s)", def))
	if c.debug {
		s += " " + c.styles.debug.Render("[DEBUG MODE]")
	}
	return s + ":"
}

// readLine waits for the next input line. The reader goroutine is started
// on first use and outlives a cancelled prompt.
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.startOnce.Do(func() { go c.pump() })

	select {
	case <-ctx.Done():
		c.println("")
		return "", ErrAborted
	case l, ok := <-c.lines:
		if !ok || (l.err != nil && l.text == "") {
			return "", ErrAborted
		}
		text := strings.TrimSpace(l.text)
		if text == QuitCommand {
			return "", ErrAborted
		}
		return text, nil
	}
}

func (c *Console) pump() {
	defer close(c.lines)
	for {
		text, err := c.in.ReadString('\n')
		c.lines <- line{text: text, err: err}
		if err != nil {
			return
		}
	}
}

func (c *Console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, s)
}

var _ Prompter = (*Console)(nil)
