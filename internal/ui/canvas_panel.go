package ui

// RenderCanvasPanel wraps the rendered canvas with a styled border.
// The canvas itself is drawn by the render package.
func RenderCanvasPanel(width, height int, canvas string, live bool) string {
	style := StylePanelBorder
	if live {
		style = StylePanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(canvas)
}
