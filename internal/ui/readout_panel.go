package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"locus.klederson.com/internal/locus"
)

// RenderReadoutPanel renders the numeric state under the canvas: raw and
// unwrapped angles, camera, crosshair size, and a yaw history sparkline,
// with a heading compass on the right when there is room.
func RenderReadoutPanel(r locus.Readout, f locus.Frame, yawHistory []float64, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}
	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}

	compassW := 0
	if innerH >= 5 && innerW >= 60 {
		compassW = min(innerH*3, innerW/3)
	}
	fieldsW := innerW - compassW

	sizeRatio := 0.0
	if f.DefaultSize > 0 {
		sizeRatio = f.Crosshair.CurrentSize / f.DefaultSize
	}

	raw, unwrapped := "waiting for first sample", "-"
	if r.Seeded {
		raw = fmt.Sprintf("yaw %7.1f  pitch %7.1f", r.Raw.Yaw, r.Raw.Pitch)
		unwrapped = fmt.Sprintf("yaw %7.1f  pitch %7.1f", r.RunningYaw, r.RunningPitch)
	}

	fields := []struct{ label, value string }{
		{"Raw", raw},
		{"Unwrapped", unwrapped},
		{"World", fmt.Sprintf("x %6.0f  y %6.0f", r.Coordinate.X, r.Coordinate.Y)},
		{"Camera", fmt.Sprintf("x %6.1f  y %6.1f", f.Camera.X, f.Camera.Y)},
		{"Crosshair", fmt.Sprintf("x %6.1f  y %6.1f  size %4.0f", f.Crosshair.Current.X, f.Crosshair.Current.Y, f.Crosshair.CurrentSize)},
	}

	lines := make([]string, 0, innerH)
	for _, fl := range fields {
		label := StyleLabel.Render(fmt.Sprintf("  %-10s", fl.label))
		lines = append(lines, label+StyleValue.Render(fl.value))
	}

	barWidth := fieldsW - 20
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-10s", "Size"))+renderSizeBar(sizeRatio, barWidth))

	if len(yawHistory) > 0 {
		sparkW := fieldsW - 14
		if sparkW < 10 {
			sparkW = 10
		}
		spark := renderSparkline(yawHistory, sparkW)
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-10s", "Yaw hist"))+StyleTrail.Render(spark))
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	content := lipgloss.NewStyle().Width(fieldsW).MaxHeight(innerH).Render(strings.Join(lines, "\n"))

	if compassW > 0 {
		heading := r.Raw.Yaw * math.Pi / 180
		compass := RenderCompass(compassW, innerH, heading, r.Raw.Pitch)
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, compass)
	}

	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}

func renderSizeBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(ColorGreen).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	pct := StyleValue.Render(fmt.Sprintf(" %3.0f%%", ratio*100))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]") + pct
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	// Take last `width` values
	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	// Find min/max for scaling
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}

	return sb.String()
}
