package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/ui/styles"
)

// trashedTask is a hidden task with the path it lives under
type trashedTask struct {
	status string
	goal   string
	task   models.Task
}

func collectTrash(statuses []models.Status) []trashedTask {
	var out []trashedTask
	for _, st := range statuses {
		for _, g := range st.Goals {
			for _, t := range g.TrashedTasks() {
				out = append(out, trashedTask{status: st.Name, goal: g.Name, task: t})
			}
		}
	}
	return out
}

func renderTrash(s *styles.Styles, items []trashedTask, cursor, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	rowWidth := max(contentWidth-4, 20)

	rows := []string{s.Title.Render("Trash"), ""}
	if len(items) == 0 {
		rows = append(rows, s.TitleMuted.Render("Trash is empty."))
	}
	for i, it := range items {
		style := s.ListItem
		if i == cursor {
			style = s.ListSelected
		}
		line := fmt.Sprintf("%s  %s", it.task.Name,
			s.TitleMuted.Render(it.status+" / "+it.goal))
		rows = append(rows, style.Width(rowWidth).Render(line))
	}
	rows = append(rows, s.Help.Render(fmt.Sprintf("%s restore • %s back",
		s.HelpKey.Render("r"),
		s.HelpKey.Render("esc"),
	)))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(padded, width, height)
}
