package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, canvas panel, readout panel and
// status bar.
func ComposeLayout(menuBar, canvasPanel, readoutPanel, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, canvasPanel, readoutPanel, statusBar)
}
