package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	OKColor      = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ErrorColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(OKColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
)

// SeverityStyle picks the style for a budget severity label.
func SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "exceeded":
		return ErrorStyle
	case "near-limit":
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// FormatTitle renders a section heading.
func FormatTitle(s string) string {
	return TitleStyle.Render(s)
}
