package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used by HumanFormatter.
type Theme struct {
	Header  lipgloss.Style
	ID      lipgloss.Style
	Score   lipgloss.Style
	Blocked lipgloss.Style
	Done    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme builds the default theme for a renderer writing to w. Color is
// dropped automatically when w is not a terminal.
func NewTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)

	primary := lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	green := lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	red := lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	muted := lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}

	return Theme{
		Header:  r.NewStyle().Foreground(primary).Bold(true),
		ID:      r.NewStyle().Foreground(muted),
		Score:   r.NewStyle().Foreground(green).Bold(true),
		Blocked: r.NewStyle().Foreground(red).Bold(true),
		Done:    r.NewStyle().Foreground(muted).Strikethrough(true),
		Muted:   r.NewStyle().Foreground(muted),
		Error:   r.NewStyle().Foreground(red),
	}
}
