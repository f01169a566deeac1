// internal/console/styles.go
//
// lipgloss styles bound to the console's output renderer.

package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to the output writer's renderer, so a non-terminal
// writer gets plain text.
type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	guardian lipgloss.Style
	hint     lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	warning  lipgloss.Style
	muted    lipgloss.Style
	score    lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C9A227")),
		heading: r.NewStyle().Bold(true).Underline(true).MarginTop(1),
		guardian: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		hint:    r.NewStyle().Italic(true).Foreground(lipgloss.Color("#87AFD7")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD75F")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#D75F5F")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#888888")),
		score:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")),
	}
}
