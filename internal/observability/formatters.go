// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/cover-letter-bot/internal/artifacts"
	"github.com/jonathan/cover-letter-bot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxLinesToShow caps long text previews
	maxLinesToShow = 12
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out   io.Writer
	box   lipgloss.Style
	title lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out: out,
		box: r.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Width(boxWidth - 2),
		title: r.NewStyle().Bold(true),
	}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = truncate(line, boxWidth-6)
	}
	body := p.title.Render(title) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(p.out, p.box.Render(body))
}

func truncate(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	return string(runes[:width-3]) + "..."
}

// PrintPreferences outputs the collected preferences.
func (p *Printer) PrintPreferences(prefs *types.Preferences) {
	if prefs == nil {
		return
	}

	exemplar := prefs.ExemplarPath
	if exemplar == "" {
		exemplar = "None"
	}
	focus := prefs.Focus
	if focus == "" {
		focus = "-"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job URL:   %s\n", prefs.JobURL))
	sb.WriteString(fmt.Sprintf("CV:        %s\n", prefs.CVPath))
	sb.WriteString(fmt.Sprintf("Exemplar:  %s\n", exemplar))
	sb.WriteString(fmt.Sprintf("Length:    %s\n", prefs.Limit))
	sb.WriteString(fmt.Sprintf("Tone:      %s\n", prefs.Tone))
	sb.WriteString(fmt.Sprintf("Focus:     %s\n", focus))
	sb.WriteString(fmt.Sprintf("Output:    %s%s\n", prefs.BaseName(), types.SourceExt))

	p.printBox("PREFERENCES", sb.String())
}

// PrintJobText outputs the scrape outcome and a preview of the text.
func (p *Printer) PrintJobText(job *types.JobText) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", job.SourceURL))
	sb.WriteString(fmt.Sprintf("Outcome:  %s\n", job.Outcome))
	if job.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf("Status:   %d\n", job.StatusCode))
	}
	if !job.OK() {
		sb.WriteString(fmt.Sprintf("Error:    %s\n", job.Message))
		p.printBox("JOB DESCRIPTION", sb.String())
		return
	}

	lines := strings.Split(job.Text, "\n")
	sb.WriteString(fmt.Sprintf("Lines:    %d\n\n", len(lines)))
	count := min(len(lines), maxLinesToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i] + "\n")
	}
	if len(lines) > maxLinesToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxLinesToShow))
	}

	p.printBox("JOB DESCRIPTION", sb.String())
}

// PrintPrompt outputs the composed prompt in full.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPrompt(prompt string) {
	if prompt == "" {
		return
	}
	fmt.Fprintln(p.out, p.title.Render("PROMPT"))
	fmt.Fprintln(p.out, prompt)
}

// PrintArtifacts outputs the produced files.
func (p *Printer) PrintArtifacts(set *types.ArtifactSet) {
	if set == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:  %s\n", set.SourcePath))
	sb.WriteString(fmt.Sprintf("PDF:     %s\n", set.PDFPath))
	sb.WriteString(fmt.Sprintf("Log:     %s\n", set.LogPath))
	if set.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("Pages:   %d\n", set.PageCount))
	}

	p.printBox("ARTIFACTS", sb.String())
}

// PrintCleanupWarnings outputs auxiliary files that could not be removed.
func (p *Printer) PrintCleanupWarnings(warnings []*artifacts.CleanupWarning) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("• %s\n", w.Error()))
	}

	p.printBox(fmt.Sprintf("CLEANUP WARNINGS (%d)", len(warnings)), sb.String())
}
