package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar reports.
type StatusInfo struct {
	Paused   bool
	Stale    bool // samples arrived before but none recently
	Samples  int
	Rate     float64 // samples per second
	TrailLen int
	TrailCap int
	Cadence  string
	Forward  bool
	Err      string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusInfo) string {
	status := StyleStatusLive.Render("[LIVE]")
	switch {
	case s.Paused:
		status = StyleStatusPaused.Render("[PAUSED]")
	case s.Stale:
		status = StyleStatusError.Render("[NO SIGNAL]")
	}

	orientation := "forward"
	if !s.Forward {
		orientation = "backward"
	}

	info := fmt.Sprintf(" Samples: %d  Rate: %.1fHz  Trail: %d/%d  Camera: %s  Sensor: %s",
		s.Samples, s.Rate, s.TrailLen, s.TrailCap, s.Cadence, orientation)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)
	if s.Err != "" {
		content += "  " + StyleStatusError.Render(s.Err)
	}

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	padding := strings.Repeat(" ", gap)

	return StyleStatusBar.Width(width).Render(content + padding)
}
