package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasquest/internal/health"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/tags"
	"github.com/tgienger/tasquest/internal/ui/styles"
)

const (
	// DateLayout is used for every due date and timestamp on screen
	DateLayout = "2006-01-02 15:04"

	listBarWidth   = 15
	detailBarWidth = 30

	barFilled = "█"
	barEmpty  = "░"
)

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// ConnectorSpan is how many rows the goal connector covers for n visible tasks
func ConnectorSpan(n int) int {
	return max(0, n-1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "no due date"
	}
	return t.Local().Format(DateLayout)
}

func starGlyph(starred bool) string {
	if starred {
		return "★"
	}
	return "☆"
}

// renderHealthBar draws width cells colored by the meter's bucket
func renderHealthBar(s *styles.Styles, m health.Meter, width int) string {
	fill := m.Fill(width)
	filled := lipgloss.NewStyle().Foreground(styles.HealthColor(m.Bucket())).
		Render(strings.Repeat(barFilled, fill))
	empty := s.BarTrack.Render(strings.Repeat(barEmpty, width-fill))
	return filled + empty + " " + s.BarLabel.Render(m.Label())
}

// renderTagChips colors each tag name with its tag color after shortening it
func renderTagChips(s *styles.Styles, ts []models.Tag, shorten func(models.Tag) string) string {
	chips := make([]string, 0, len(ts))
	for _, t := range ts {
		chips = append(chips, s.Tag.Foreground(styles.TagColor(t)).Render(shorten(t)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func meterOf(t models.Task) health.Meter {
	return health.Meter{Current: t.CurrentHealth, Max: t.MaxHealth}
}

func listChips(s *styles.Styles, t models.Task) string {
	return renderTagChips(s, tags.ForList(t.Tags), tags.Compact)
}
