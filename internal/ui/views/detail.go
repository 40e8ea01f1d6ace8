package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/tags"
	"github.com/tgienger/tasquest/internal/ui/styles"
)

// renderTaskDetail is the popup opened with enter on a task row
func renderTaskDetail(s *styles.Styles, t models.Task, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	textWidth := clamp(contentWidth-10, 20, 70)
	label := s.PopupLabel

	desc := t.Description
	if desc == "" {
		desc = s.TitleMuted.Render("No description")
	}

	tagLine := s.TitleMuted.Render("None")
	if len(t.Tags) > 0 {
		tagLine = tags.Names(t.Tags) + "\n" + renderTagChips(s, t.Tags, tags.Detail)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(t.Name),
		label.Render("Health"),
		renderHealthBar(s, meterOf(t), detailBarWidth),
		"",
		label.Render("Due"),
		formatDate(t.DueDate),
		"",
		label.Render("Tags:"),
		tagLine,
		"",
		label.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(desc),
		"",
		label.Render(fmt.Sprintf("Created %s • Updated %s",
			t.CreatedAt.Local().Format(DateLayout),
			t.UpdatedAt.Local().Format(DateLayout),
		)),
		"",
		s.Help.Render(fmt.Sprintf("%s edit • %s trash • %s back",
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		)),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, width, height)
}
