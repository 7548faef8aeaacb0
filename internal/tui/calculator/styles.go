// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     calculator
// Description: Styles for the calculator TUI
// Author:      Mike Stoffels
// Created:     2025-12-11
// License:     MIT
// ============================================================================

package calculator

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2).
			MarginBottom(1)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ModeStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Input and result styles
var (
	InputPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	ResultStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Padding(0, 1)

	DomainStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)
)

// History panel styles
var (
	HistoryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed).
				Padding(0, 1)

	HistoryIndexStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	HistoryTimeStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	HistoryExprStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	HistoryResultStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)

	SelectedHistoryStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
)

// Help styles
var (
	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)
)

// Logo
const Logo = "Euler"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}
