package viewer

import (
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay centers fg over a dimmed base of the given terminal size.
func renderOverlay(base, fg string, termW, termH int) string {
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	fgW, fgH := lipgloss.Width(fg), lipgloss.Height(fg)
	x := max(0, (termW-fgW)/2)
	y := max(0, (termH-fgH)/2)

	dimBase := lipglossv2.NewStyle().Faint(true).Render(base)
	baseLayer := lipglossv2.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipglossv2.NewLayer(fg).
		Width(fgW).
		Height(fgH).
		X(x).
		Y(y)
	return lipglossv2.NewCanvas(baseLayer, fgLayer).Render()
}
