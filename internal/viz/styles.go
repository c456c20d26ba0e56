package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).MarginBottom(1)
}

func graphStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Success).Padding(1, 0)
}

func statusStyle(running bool) lipgloss.Style {
	if running {
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Success)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// ColourOf converts a ball colour to a terminal colour. Black reads as the
// theme's muted tone so dark balls stay visible.
func ColourOf(c mgl32.Vec3) lipgloss.Color {
	r, g, b := channel(c[0]), channel(c[1]), channel(c[2])
	if r == 0 && g == 0 && b == 0 {
		return CurrentTheme.Muted
	}
	return lipgloss.Color(hexColor(r, g, b))
}

func channel(v float32) int {
	return int(v*255 + 0.5)
}

// Separator draws a muted rule with a diamond in the middle.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(left + " ◆ " + right)
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
