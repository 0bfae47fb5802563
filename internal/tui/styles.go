package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/coinfocus/internal/asset"
)

// Palette.
const (
	ColorProfit = lipgloss.Color("42")
	ColorLoss   = lipgloss.Color("196")
	ColorHeader = lipgloss.Color("39")
	ColorLabel  = lipgloss.Color("245")
	ColorValue  = lipgloss.Color("255")
	ColorMuted  = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("63")
)

// Styles named after the detail page's stylesheet classes.
//
//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	// ContainerStyle wraps the whole view.
	ContainerStyle = lipgloss.NewStyle().Padding(1, 2)
	// CenterStyle centres headings.
	CenterStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader).Align(lipgloss.Center)
	// ContentStyle boxes the asset card.
	ContentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)
	// LogoStyle renders the icon reference.
	LogoStyle = lipgloss.NewStyle().Foreground(ColorMuted).Underline(true)
	// ProfitStyle marks a non-negative change.
	ProfitStyle = lipgloss.NewStyle().Foreground(ColorProfit).Bold(true)
	// LossStyle marks a negative change.
	LossStyle = lipgloss.NewStyle().Foreground(ColorLoss).Bold(true)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	HelpStyle  = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

// ChangeStyle returns the lipgloss style for a change tag.
func ChangeStyle(s asset.Style) lipgloss.Style {
	if s == asset.StyleLoss {
		return LossStyle
	}
	return ProfitStyle
}
