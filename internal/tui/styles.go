// Package tui provides terminal output components for eureka.
//
// This package provides a small style system using Lip Gloss. All colors use
// AdaptiveColor for light/dark terminal support.
//
// # NO_COLOR Support
//
// Call CheckNoColor() at the start of commands to respect the NO_COLOR environment
// variable. Colors are also disabled when TERM=dumb.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/mrz1836/eureka/internal/schema"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for headings and informational text.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for errors and cycle paths.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// FieldTypeColors returns the color used for each field type in tables.
func FieldTypeColors() map[schema.FieldTypeKey]lipgloss.AdaptiveColor {
	return map[schema.FieldTypeKey]lipgloss.AdaptiveColor{
		schema.FieldTypeText:         {Light: "#0087AF", Dark: "#00D7FF"},
		schema.FieldTypeNumber:       {Light: "#875FAF", Dark: "#AF87FF"},
		schema.FieldTypeDate:         {Light: "#AF8700", Dark: "#FFD700"},
		schema.FieldTypeSingleSelect: {Light: "#008700", Dark: "#00FF87"},
		schema.FieldTypeMultiSelect:  {Light: "#00875F", Dark: "#5FD7AF"},
	}
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Dim        lipgloss.Style
	TypeColors map[schema.FieldTypeKey]lipgloss.AdaptiveColor
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		TypeColors: FieldTypeColors(),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor for light/dark terminal support.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or TERM=dumb.
// This follows the NO_COLOR standard: https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// padRight pads s with spaces to the given display width, truncating with
// an ellipsis when it is wider. Width is measured in terminal cells with
// ANSI escape codes excluded.
func padRight(s string, width int) string {
	visible := runewidth.StringWidth(stripANSI(s))
	if visible > width {
		return runewidth.Truncate(stripANSI(s), width, "…")
	}
	return s + strings.Repeat(" ", width-visible)
}

// stripANSI removes CSI escape sequences (\x1b[...letter) from s.
func stripANSI(s string) string {
	if !strings.Contains(s, "\x1b[") {
		return s
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			i += 2
			for i < len(runes) && !isCSIFinal(runes[i]) {
				i++
			}
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func isCSIFinal(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
