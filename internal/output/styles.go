package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.Color("#06B6D4")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles are bound to one writer's renderer so that non-terminal writers
// (files, pipes, test buffers) get plain text.
type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	value   lipgloss.Style
	banner  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		heading: r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(colorSuccess),
		failure: r.NewStyle().Foreground(colorError),
		warning: r.NewStyle().Foreground(colorWarning),
		muted:   r.NewStyle().Foreground(colorMuted),
		value:   r.NewStyle().Bold(true),
		banner: r.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Width(78).
			Align(lipgloss.Center),
	}
}
