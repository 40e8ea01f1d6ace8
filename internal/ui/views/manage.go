package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/store"
	"github.com/tgienger/tasquest/internal/ui/keys"
	"github.com/tgienger/tasquest/internal/ui/styles"
)

// Form field order
const (
	fieldName = iota
	fieldDesc
	fieldDue
	fieldHealth
	fieldMaxHealth
	fieldTags
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name:", "Description:", "Due (YYYY-MM-DD HH:MM):", "Health:", "Max health:", "Tags (comma separated):",
}

const defaultMaxHealth = 100

// newTagColor is given to tags typed into the form that the board has not seen
var newTagColor = models.Color{R: 0.6, G: 0.6, B: 0.6}

// manageForm creates a task under goalID, or edits taskID when it is set
type manageForm struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap
	help   help.Model

	goalID uuid.UUID
	taskID uuid.UUID

	inputs  [fieldCount]textinput.Model
	prefill [fieldCount]string // values an edit started from
	focus   int
	err     string
}

func newManageForm(s *store.Store, st *styles.Styles, km keys.KeyMap, h help.Model) *manageForm {
	f := &manageForm{store: s, styles: st, keys: km, help: h}

	placeholders := [fieldCount]string{
		"Task name", "Description (optional)", "2006-01-02 15:04", "same as max", "100", "Work, Home",
	}
	limits := [fieldCount]int{200, 1000, 16, 10, 10, 200}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		f.inputs[i] = in
	}
	return f
}

func (f *manageForm) startNew(goalID uuid.UUID) tea.Cmd {
	f.goalID = goalID
	f.taskID = uuid.Nil
	f.err = ""
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.prefill[i] = ""
	}
	f.focus = fieldName
	f.updateFocus()
	return textinput.Blink
}

func (f *manageForm) startEdit(t models.Task) tea.Cmd {
	f.goalID = uuid.Nil
	f.taskID = t.ID
	f.err = ""

	due := ""
	if !t.DueDate.IsZero() {
		due = t.DueDate.Local().Format(DateLayout)
	}
	names := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		names[i] = tag.Name
	}

	f.inputs[fieldName].SetValue(t.Name)
	f.inputs[fieldDesc].SetValue(t.Description)
	f.inputs[fieldDue].SetValue(due)
	f.inputs[fieldHealth].SetValue(formatNumber(t.CurrentHealth))
	f.inputs[fieldMaxHealth].SetValue(formatNumber(t.MaxHealth))
	f.inputs[fieldTags].SetValue(strings.Join(names, ", "))
	for i := range f.inputs {
		f.prefill[i] = f.inputs[i].Value()
	}

	f.focus = fieldName
	f.updateFocus()
	return textinput.Blink
}

func (f *manageForm) editing() bool { return f.taskID != uuid.Nil }

// changed reports whether the user touched field since the edit started
func (f *manageForm) changed(field int) bool {
	return strings.TrimSpace(f.inputs[field].Value()) != strings.TrimSpace(f.prefill[field])
}

// Update handles a key; done reports the form should close
func (f *manageForm) Update(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Back):
		return true, nil

	case key.Matches(msg, f.keys.Save):
		return f.submit(), nil

	case key.Matches(msg, f.keys.PrevField):
		f.focus = (f.focus + fieldCount - 1) % fieldCount
		f.updateFocus()
		return false, nil

	case key.Matches(msg, f.keys.NextField):
		f.focus = (f.focus + 1) % fieldCount
		f.updateFocus()
		return false, nil

	case key.Matches(msg, f.keys.Enter):
		if f.focus < fieldCount-1 {
			f.focus++
			f.updateFocus()
			return false, nil
		}
		return f.submit(), nil
	}

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f *manageForm) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *manageForm) updateFocus() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.inputs[f.focus].Focus()
}

// submit writes the form to the store; on failure the error stays on the form
func (f *manageForm) submit() bool {
	if err := f.save(); err != nil {
		f.err = describeError(err)
		return false
	}
	f.err = ""
	return true
}

func (f *manageForm) save() error {
	name := strings.TrimSpace(f.inputs[fieldName].Value())
	desc := strings.TrimSpace(f.inputs[fieldDesc].Value())

	due, err := parseDue(f.inputs[fieldDue].Value())
	if err != nil {
		return err
	}
	maxHealth, err := parseHealth(f.inputs[fieldMaxHealth].Value(), defaultMaxHealth)
	if err != nil {
		return fmt.Errorf("max health: %w", err)
	}
	current, err := parseHealth(f.inputs[fieldHealth].Value(), maxHealth)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	tagList := f.resolveTags(f.inputs[fieldTags].Value())

	if f.editing() {
		// Untouched health fields stay out of the patch so decay that
		// happened while the form was open is kept
		patch := store.TaskPatch{Name: &name, Description: &desc, Tags: &tagList}
		if f.changed(fieldDue) {
			patch.DueDate = &due
		}
		if f.changed(fieldHealth) {
			patch.CurrentHealth = &current
		}
		if f.changed(fieldMaxHealth) {
			patch.MaxHealth = &maxHealth
		}
		_, err = f.store.UpdateTask(f.taskID, patch)
		return err
	}

	_, err = f.store.CreateTask(f.goalID, store.TaskInput{
		Name:          name,
		Description:   desc,
		DueDate:       due,
		CurrentHealth: current,
		MaxHealth:     maxHealth,
		Tags:          tagList,
	})
	return err
}

// resolveTags keeps the color of tags already on the board
func (f *manageForm) resolveTags(raw string) []models.Tag {
	var out []models.Tag
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		tag, err := f.store.Tag(name)
		if err != nil {
			tag = models.Tag{Name: name, Color: newTagColor}
		}
		out = append(out, tag)
	}
	return out
}

func parseDue(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{DateLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("due date %q: want YYYY-MM-DD HH:MM", raw)
}

func parseHealth(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// describeError turns store errors into status line text
func describeError(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidHealthRange):
		return "health must be between 0 and max health"
	case errors.Is(err, store.ErrNotFound):
		return "that item no longer exists"
	case errors.Is(err, store.ErrInvalidArgs):
		return "name is required"
	}
	return err.Error()
}

func (f *manageForm) View(width, height int) string {
	s := f.styles
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	title := "New Task"
	if f.editing() {
		title = "Edit Task"
	}

	rows := []string{s.Title.Render(title), ""}
	for i := range f.inputs {
		style := s.Input
		if i == f.focus {
			style = s.InputFocused
		}
		rows = append(rows, fieldLabels[i], style.Width(inputWidth).Render(f.inputs[i].View()))
	}
	if f.err != "" {
		rows = append(rows, "", s.Error.Render(f.err))
	}
	rows = append(rows, "", f.help.ShortHelpView(f.keys.FormHelp()))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, width, height)
}
