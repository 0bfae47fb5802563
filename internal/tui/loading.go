package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// loadingText is shown next to the spinner.
const loadingText = "Loading..."

// LoadingState animates the loading indicator.
type LoadingState struct {
	spinner spinner.Model
}

// NewLoadingState creates a LoadingState with a dot spinner.
func NewLoadingState() *LoadingState {
	return &LoadingState{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(CenterStyle),
		),
	}
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner for its own tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner and the loading text.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + loadingText
}

// RenderLoadingIndicator renders a static loading indicator.
func RenderLoadingIndicator() string {
	return CenterStyle.Render(loadingText)
}
