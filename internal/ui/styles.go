package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - Adaptive based on terminal background
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
)

func init() {
	initializeColors()
	buildStyles()
}

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
		return
	case "dark":
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
}

// Component styles. Built after the colors are chosen.
var (
	StyleTitle      lipgloss.Style
	StyleText       lipgloss.Style
	StyleTextDim    lipgloss.Style
	StyleFocused    lipgloss.Style
	StyleUnselected lipgloss.Style
	StyleMatch      lipgloss.Style

	StyleSuccess lipgloss.Style
	StyleWarning lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleCode    lipgloss.Style
)

func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StyleText = lipgloss.NewStyle().
		Foreground(ColorText)

	StyleTextDim = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	StyleUnselected = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	StyleMatch = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Underline(true)

	StyleSuccess = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	StyleWarning = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	StyleInfo = lipgloss.NewStyle().
		Foreground(ColorInfo)

	StyleCode = lipgloss.NewStyle().
		Foreground(ColorAccent)
}

// CreateOption renders one row of a select list.
func CreateOption(label string, isSelected bool) string {
	if isSelected {
		return StyleFocused.Render("▶ " + label)
	}
	return StyleUnselected.Render("  " + label)
}

// CreateHelp renders a dim help line.
func CreateHelp(text string) string {
	return StyleTextDim.Render(text)
}
