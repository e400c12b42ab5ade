package tui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay2 lipgloss.Color = "#9399b2"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
)

// greyRamp runs from the darkest card fill to the brightest.
var greyRamp = []lipgloss.Color{
	colorSurface0, colorSurface1, colorSurface2,
	colorOverlay0, colorOverlay1, colorOverlay2,
	colorSubtext0, colorSubtext1, colorText,
}

// shade maps a luminance in [0,1] (opacity times brightness) onto the ramp.
func shade(v float64) lipgloss.Color {
	v = math.Max(0, math.Min(1, v))
	return greyRamp[int(math.Round(v*float64(len(greyRamp)-1)))]
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusStyle    = lipgloss.NewStyle().Foreground(colorSubtext1)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	statusOKStyle  = lipgloss.NewStyle().Foreground(colorSuccess)

	coverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Foreground(colorSubtext1).
			Padding(1, 2)

	qrStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(0, 1)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	dotActiveStyle   = lipgloss.NewStyle().Foreground(colorText)
	dotInactiveStyle = lipgloss.NewStyle().Foreground(colorSurface2)

	labelStyle       = lipgloss.NewStyle().Foreground(colorSubtext0)
	labelFocusStyle  = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	sectionStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	cardListStyle    = lipgloss.NewStyle().Foreground(colorSubtext1)
	cardListSelStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0)
)
