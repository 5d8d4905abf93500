package interactive

import "github.com/charmbracelet/lipgloss"

// Theme holds the color scheme for console output.
type Theme struct {
	Title   lipgloss.Color
	Prompt  lipgloss.Color
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Debug   lipgloss.Color
	Hint    lipgloss.Color
}

// DefaultTheme provides default colors.
var DefaultTheme = Theme{
	Title:   lipgloss.Color("#5FD7FF"), // cyan
	Prompt:  lipgloss.Color("#FFFFFF"),
	Status:  lipgloss.Color("#FFD75F"), // yellow
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Debug:   lipgloss.Color("#FF5F5F"),
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	debug   lipgloss.Style
	prompt  lipgloss.Style
	hint    lipgloss.Style
	status  lipgloss.Style
	success lipgloss.Style
	err     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, t Theme) styles {
	return styles{
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Title).
			Padding(0, 1),
		title:   r.NewStyle().Foreground(t.Title).Bold(true),
		debug:   r.NewStyle().Foreground(t.Debug).Bold(true),
		prompt:  r.NewStyle().Foreground(t.Prompt).Bold(true),
		hint:    r.NewStyle().Foreground(t.Hint).Italic(true),
		status:  r.NewStyle().Foreground(t.Status),
		success: r.NewStyle().Foreground(t.Success).Bold(true),
		err:     r.NewStyle().Foreground(t.Error).Bold(true),
	}
}
