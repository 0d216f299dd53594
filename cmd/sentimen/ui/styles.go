// Package ui provides the visual styling for the sentimen terminal UI.
// Uses a light/dark palette plus the sentiment tone colors shared by every
// panel (green for positif, red for negatif, gray for anything else).
package ui

import (
	"os"
	"strconv"
	"strings"

	"sentimen/internal/report"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1f2937")
	LightPrimary    = lipgloss.Color("#3b82f6") // Blue action color
	LightAccent     = lipgloss.Color("#6366f1") // Indigo
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#d1d5db")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f3f4f6")
	DarkPrimary    = lipgloss.Color("#60a5fa")
	DarkAccent     = lipgloss.Color("#818cf8")
	DarkMuted      = lipgloss.Color("#9ca3af")
	DarkBorder     = lipgloss.Color("#374151")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#ef4444")
	Warning     = lipgloss.Color("#ca8a04")
	Disabled    = lipgloss.Color("#9ca3af")

	// Model accents
	ImbalancedAccent = lipgloss.Color("#9333ea") // Purple
	BalancedAccent   = lipgloss.Color("#2563eb") // Blue
)

// ToneColors is the text/background pairing of one sentiment tone.
type ToneColors struct {
	Text       lipgloss.Color
	Background lipgloss.Color
	Bar        lipgloss.Color
}

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Green      ToneColors
	Red        ToneColors
	Gray       ToneColors
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Green:      ToneColors{Text: "#22c55e", Background: "#dcfce7", Bar: "#22c55e"},
		Red:        ToneColors{Text: "#ef4444", Background: "#fee2e2", Bar: "#ef4444"},
		Gray:       ToneColors{Text: "#6b7280", Background: "#f3f4f6", Bar: "#6b7280"},
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Green:      ToneColors{Text: "#4ade80", Background: "#14532d", Bar: "#22c55e"},
		Red:        ToneColors{Text: "#f87171", Background: "#7f1d1d", Bar: "#ef4444"},
		Gray:       ToneColors{Text: "#d1d5db", Background: "#374151", Bar: "#6b7280"},
		IsDark:     true,
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// Format is usually "foreground;background"; 0-6 and 8 are dark backgrounds.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("SENTIMEN_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// ThemeFor resolves a configured theme name. Unknown names auto-detect.
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	return DetectTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Input
	InputFocused lipgloss.Style
	InputBlurred lipgloss.Style
	InputLocked  lipgloss.Style

	// Primary action control
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Status
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Result panels
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	PanelTag   lipgloss.Style
	Badge      lipgloss.Style
	Confidence lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Align(lipgloss.Center),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		InputBlurred: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		InputLocked: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Disabled).
			Foreground(Disabled).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary).
			Bold(true).
			Padding(0, 3),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Accent).
			Bold(true).
			Underline(true).
			Padding(0, 3),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Disabled).
			Padding(0, 3),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive).
			Padding(0, 1),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Warning).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		PanelTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2),

		Confidence: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// ToneColors returns the color pairing for a tone.
func (s Styles) ToneColors(t report.Tone) ToneColors {
	switch t {
	case report.ToneGreen:
		return s.Theme.Green
	case report.ToneRed:
		return s.Theme.Red
	}
	return s.Theme.Gray
}

// ToneBadge styles a badge: tone text on the tone background.
func (s Styles) ToneBadge(t report.Tone) lipgloss.Style {
	c := s.ToneColors(t)
	return s.Badge.Foreground(c.Text).Background(c.Background)
}

// ModelAccent returns the accent color of a compared model.
func ModelAccent(side report.Side) lipgloss.Color {
	if side.Key == report.SideBalanced.Key {
		return BalancedAccent
	}
	return ImbalancedAccent
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
