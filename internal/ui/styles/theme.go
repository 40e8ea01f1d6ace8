package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasquest/internal/health"
	"github.com/tgienger/tasquest/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Star    lipgloss.Color

	// Health buckets
	Healthy  lipgloss.Color
	Warning  lipgloss.Color
	Critical lipgloss.Color
	Track    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "tokyo-night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),
	Accent:  lipgloss.Color("#7dcfff"),
	Star:    lipgloss.Color("#e0af68"),

	Healthy:  lipgloss.Color("#9ece6a"),
	Warning:  lipgloss.Color("#e0af68"),
	Critical: lipgloss.Color("#f7768e"),
	Track:    lipgloss.Color("#292e42"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

var Gruvbox = Theme{
	Name: "gruvbox",

	Background:    lipgloss.Color("#282828"),
	Foreground:    lipgloss.Color("#ebdbb2"),
	ForegroundDim: lipgloss.Color("#928374"),

	Primary: lipgloss.Color("#83a598"),
	Accent:  lipgloss.Color("#8ec07c"),
	Star:    lipgloss.Color("#fabd2f"),

	Healthy:  lipgloss.Color("#b8bb26"),
	Warning:  lipgloss.Color("#fabd2f"),
	Critical: lipgloss.Color("#fb4934"),
	Track:    lipgloss.Color("#3c3836"),

	Border:      lipgloss.Color("#504945"),
	BorderFocus: lipgloss.Color("#83a598"),
	Selection:   lipgloss.Color("#504945"),
}

var themes = map[string]Theme{
	TokyoNight.Name: TokyoNight,
	Gruvbox.Name:    Gruvbox,
}

// Current holds the active theme
var Current = TokyoNight

// Use switches the active theme by name; unknown names keep the current one
func Use(name string) bool {
	t, ok := themes[name]
	if ok {
		Current = t
	}
	return ok
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// HealthColor maps a health bucket to the theme color every bar uses
func HealthColor(b health.Bucket) lipgloss.Color {
	switch b {
	case health.Healthy:
		return Current.Healthy
	case health.Warning:
		return Current.Warning
	default:
		return Current.Critical
	}
}

// TagColor converts a tag's normalized RGB to a terminal color
func TagColor(tag models.Tag) lipgloss.Color {
	return lipgloss.Color(tag.Color.Hex())
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Title bar
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Status tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Board rows
	GoalHeader   lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Connector    lipgloss.Style
	Star         lipgloss.Style
	Due          lipgloss.Style

	// Tags
	Tag lipgloss.Style

	// Health bar
	BarTrack lipgloss.Style
	BarLabel lipgloss.Style

	// Popups
	Popup      lipgloss.Style
	PopupLabel lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Tab: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 1).
			Bold(true),

		GoalHeader: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		Connector: lipgloss.NewStyle().
			Foreground(t.Border),

		Star: lipgloss.NewStyle().
			Foreground(t.Star),

		Due: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Tag: lipgloss.NewStyle().
			MarginRight(1),

		BarTrack: lipgloss.NewStyle().
			Foreground(t.Track),

		BarLabel: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(1, 2),

		PopupLabel: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(t.Critical).
			Padding(0, 1),
	}
}
