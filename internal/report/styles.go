package report

import "github.com/charmbracelet/lipgloss"

// styles holds the styles of one renderer, so that colours follow the
// capabilities of the writer they are printed to.
type styles struct {
	title   lipgloss.Style
	synced  lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	faint   lipgloss.Style
	summary lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true),
		synced:  r.NewStyle().Foreground(lipgloss.Color("2")),
		failed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		skipped: r.NewStyle().Foreground(lipgloss.Color("3")),
		faint:   r.NewStyle().Faint(true),
		summary: r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (s styles) status(status string, failed, skipped bool) string {
	switch {
	case failed:
		return s.failed.Render(status)
	case skipped:
		return s.skipped.Render(status)
	default:
		return s.synced.Render(status)
	}
}
