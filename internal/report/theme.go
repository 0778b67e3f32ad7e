package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/analytics"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CONSOLE THEME - colors shared by the report tables
// ═══════════════════════════════════════════════════════════════════════════════

// Theme defines the color scheme for console tables
type Theme struct {
	Name    string
	Border  lipgloss.Color
	Text    lipgloss.Color
	Header  lipgloss.Color
	Muted   lipgloss.Color
	Daily   lipgloss.Color
	Weekly  lipgloss.Color
	Monthly lipgloss.Color
}

// ─── CHART (default) ───
// Granularity colors match the graph output: green / orange / red
var ChartTheme = Theme{
	Name:    "CHART",
	Border:  lipgloss.Color("#666666"), // Gray
	Text:    lipgloss.Color("#ffffff"), // White
	Header:  lipgloss.Color("#00aaaa"), // Cyan
	Muted:   lipgloss.Color("#888888"), // Light Gray
	Daily:   lipgloss.Color("#008000"), // Green
	Weekly:  lipgloss.Color("#ffa500"), // Orange
	Monthly: lipgloss.Color("#ff0000"), // Red
}

// ─── MONO ───
// For terminals with poor color support
var MonoTheme = Theme{
	Name:    "MONO",
	Border:  lipgloss.Color("#aaaaaa"),
	Text:    lipgloss.Color("#ffffff"),
	Header:  lipgloss.Color("#ffffff"),
	Muted:   lipgloss.Color("#aaaaaa"),
	Daily:   lipgloss.Color("#ffffff"),
	Weekly:  lipgloss.Color("#ffffff"),
	Monthly: lipgloss.Color("#ffffff"),
}

// Themes contains all available themes
var Themes = []Theme{ChartTheme, MonoTheme}

// ThemeByName returns the named theme, ChartTheme if unknown
func ThemeByName(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ChartTheme
}

// Accent returns the color used for a granularity
func (t Theme) Accent(g analytics.Granularity) lipgloss.Color {
	switch g {
	case analytics.Monthly:
		return t.Monthly
	case analytics.Weekly:
		return t.Weekly
	default:
		return t.Daily
	}
}

func (t Theme) titleStyle(g analytics.Granularity) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Accent(g))
}

func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true).Padding(0, 1)
}

func (t Theme) cellStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1)
}

func (t Theme) mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1)
}
