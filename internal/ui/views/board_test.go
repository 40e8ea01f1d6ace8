package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/store"
)

type memSettings map[string]string

func (m memSettings) GetSetting(key string) (string, error) { return m[key], nil }
func (m memSettings) SetSetting(key, value string) error    { m[key] = value; return nil }

// failingSettings reads nothing and refuses every write
type failingSettings struct{}

func (failingSettings) GetSetting(string) (string, error) { return "", nil }
func (failingSettings) SetSetting(string, string) error   { return errors.New("disk full") }

type boardFixture struct {
	store    *store.Store
	view     *BoardView
	settings memSettings
	goal     models.Goal
	task     models.Task
	second   models.Status
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := store.New(store.WithClock(func() time.Time { return now }))

	doing, err := s.CreateStatus("Doing")
	if err != nil {
		t.Fatal(err)
	}
	done, err := s.CreateStatus("Done")
	if err != nil {
		t.Fatal(err)
	}
	goal, err := s.CreateGoal(doing.ID, store.GoalInput{Name: "Ship v1"})
	if err != nil {
		t.Fatal(err)
	}
	task, err := s.CreateTask(goal.ID, store.TaskInput{
		Name:          "Write docs",
		CurrentHealth: 30,
		MaxHealth:     100,
		Tags: []models.Tag{
			{Name: "Important", Color: models.Color{R: 1}},
			{Name: "Work", Color: models.Color{B: 1}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTask(goal.ID, store.TaskInput{Name: "Fix bug", CurrentHealth: 90, MaxHealth: 100}); err != nil {
		t.Fatal(err)
	}

	settings := memSettings{}
	v := NewBoardView(s, settings)
	v.Init()
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return &boardFixture{store: s, view: v, settings: settings, goal: goal, task: task, second: done}
}

func (f *boardFixture) press(keys ...string) {
	for _, k := range keys {
		f.view.Update(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestBoardRendersGoalsAndTasks(t *testing.T) {
	f := newBoardFixture(t)
	out := f.view.View()

	for _, want := range []string{"Doing", "Done", "☆", "Ship v1", "Write docs", "30/100", "90/100", "Impor...", "│"} {
		if !strings.Contains(out, want) {
			t.Errorf("board view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Important") {
		t.Errorf("list rows must truncate tag names:\n%s", out)
	}
}

func TestConnectorSpan(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1, 5: 4}
	for n, want := range cases {
		if got := ConnectorSpan(n); got != want {
			t.Errorf("ConnectorSpan(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestStarTogglesSelectedGoal(t *testing.T) {
	f := newBoardFixture(t)
	f.press("s")

	g, err := f.store.Goal(f.goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsStarred {
		t.Fatalf("expected goal to be starred")
	}
	if !strings.Contains(f.view.View(), "★") {
		t.Fatalf("starred glyph not rendered")
	}

	// From a task row the star applies to the task's goal
	f.press("j", "s")
	if g, _ = f.store.Goal(f.goal.ID); g.IsStarred {
		t.Fatalf("expected second toggle to unstar the goal")
	}
}

func TestEnterOpensDetail(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "enter")

	out := f.view.View()
	for _, want := range []string{"Write docs", "Tags:", "Important, Work", "Importan...", "30/100", "Created ", "Updated "} {
		if !strings.Contains(out, want) {
			t.Errorf("detail view missing %q:\n%s", want, out)
		}
	}

	f.press("esc")
	if f.view.mode != modeBoard {
		t.Fatalf("esc should close the detail popup")
	}
}

func TestTrashAndRestore(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "d")

	got, err := f.store.Task(f.task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsVisible {
		t.Fatalf("expected task in trash")
	}
	if strings.Contains(f.view.View(), "Write docs") {
		t.Fatalf("trashed task still on the board")
	}

	f.press("T")
	if !strings.Contains(f.view.View(), "Write docs") {
		t.Fatalf("trash view should list the task")
	}
	f.press("r")
	if got, _ = f.store.Task(f.task.ID); !got.IsVisible {
		t.Fatalf("expected task restored")
	}
	if !strings.Contains(f.view.View(), "Trash is empty.") {
		t.Fatalf("trash view should refresh after restore")
	}

	f.press("esc")
	if !strings.Contains(f.view.View(), "Write docs") {
		t.Fatalf("restored task missing from the board")
	}
}

func TestManageFormCreatesTask(t *testing.T) {
	f := newBoardFixture(t)
	f.press("n", "Deploy", "ctrl+s")

	if f.view.mode != modeBoard {
		t.Fatalf("form should close after save, error: %q", f.view.form.err)
	}
	tasks, err := f.store.VisibleTasks(f.goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	created := tasks[2]
	if created.Name != "Deploy" || created.CurrentHealth != 100 || created.MaxHealth != 100 {
		t.Fatalf("unexpected new task: %+v", created)
	}
	if !strings.Contains(f.view.View(), "Deploy") {
		t.Fatalf("new task not rendered")
	}
}

func TestManageFormShowsHealthError(t *testing.T) {
	f := newBoardFixture(t)
	f.press("n", "Deploy", "tab", "tab", "tab", "200", "ctrl+s")

	if f.view.mode != modeManage {
		t.Fatalf("form should stay open on invalid health")
	}
	if !strings.Contains(f.view.View(), "health must be between 0 and max health") {
		t.Fatalf("expected inline error, got:\n%s", f.view.View())
	}

	f.press("esc")
	tasks, _ := f.store.VisibleTasks(f.goal.ID)
	if len(tasks) != 2 {
		t.Fatalf("cancelled form must not create a task")
	}
}

func TestManageFormEditsTask(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "e")

	form := f.view.form
	if got := form.inputs[fieldName].Value(); got != "Write docs" {
		t.Fatalf("name not prefilled: %q", got)
	}
	if got := form.inputs[fieldTags].Value(); got != "Important, Work" {
		t.Fatalf("tags not prefilled: %q", got)
	}

	form.inputs[fieldHealth].SetValue("80")
	form.inputs[fieldTags].SetValue("Work, Garden")
	f.press("ctrl+s")

	got, err := f.store.Task(f.task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentHealth != 80 {
		t.Fatalf("expected health 80, got %v", got.CurrentHealth)
	}
	if len(got.Tags) != 2 || got.Tags[0].Color != (models.Color{B: 1}) || got.Tags[1].Color != newTagColor {
		t.Fatalf("tags not resolved: %+v", got.Tags)
	}
}

func TestManageFormKeepsDecayWhileEditing(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "e")

	// Decay lands while the form is still open with health 30 prefilled
	if _, err := f.store.ApplyDecay(20, time.Hour); err != nil {
		t.Fatal(err)
	}
	f.view.form.inputs[fieldName].SetValue("Write better docs")
	f.press("ctrl+s")

	got, err := f.store.Task(f.task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Write better docs" {
		t.Fatalf("expected rename, got %q", got.Name)
	}
	if got.CurrentHealth != 10 || got.MaxHealth != 100 {
		t.Fatalf("edit must not undo decay, got %v/%v", got.CurrentHealth, got.MaxHealth)
	}
}

func TestManageFormShowsKeyHelp(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "e")

	out := f.view.View()
	for _, want := range []string{"ctrl+s", "save", "esc"} {
		if !strings.Contains(out, want) {
			t.Errorf("form help missing %q:\n%s", want, out)
		}
	}
}

func TestTrashShowsNotice(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "d")

	if out := f.view.View(); !strings.Contains(out, "moved to trash") {
		t.Fatalf("expected trash notice:\n%s", out)
	}
	f.press("j")
	if strings.Contains(f.view.View(), "moved to trash") {
		t.Fatalf("notice should clear on the next key")
	}
}

func TestSwitchStatusReportsSettingsError(t *testing.T) {
	f := newBoardFixture(t)
	v := NewBoardView(f.store, failingSettings{})
	v.Init()
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	v.Update(keyMsg("l"))

	out := v.View()
	if !strings.Contains(out, "could not remember status") || !strings.Contains(out, "disk full") {
		t.Fatalf("expected settings error on the status line:\n%s", out)
	}
	if !strings.Contains(out, "No goals in Done.") {
		t.Fatalf("status switch should still happen:\n%s", out)
	}
}

func TestSwitchStatusRemembersSelection(t *testing.T) {
	f := newBoardFixture(t)
	f.press("l")

	if f.settings[lastStatusKey] != f.second.ID.String() {
		t.Fatalf("expected last status saved, got %q", f.settings[lastStatusKey])
	}
	if !strings.Contains(f.view.View(), "No goals in Done.") {
		t.Fatalf("expected empty Done status")
	}

	reopened := NewBoardView(f.store, f.settings)
	reopened.Init()
	if reopened.statusIdx != 1 {
		t.Fatalf("expected reopened board on Done, got index %d", reopened.statusIdx)
	}
}

func TestRefreshKeepsSelectionByID(t *testing.T) {
	f := newBoardFixture(t)
	f.press("j", "j")
	selected := f.view.rows[f.view.cursor].task.ID

	// Trashing the task above moves rows; the cursor follows the ID
	if err := f.store.TrashTask(f.task.ID); err != nil {
		t.Fatal(err)
	}
	f.view.Refresh()
	if r, ok := f.view.selected(); !ok || r.task == nil || r.task.ID != selected {
		t.Fatalf("selection lost after refresh")
	}
}

func TestHelpPopup(t *testing.T) {
	f := newBoardFixture(t)
	f.press("?")
	if !strings.Contains(f.view.View(), "Keyboard Shortcuts") {
		t.Fatalf("help popup not shown")
	}
	f.press("x")
	if f.view.mode != modeBoard {
		t.Fatalf("any key should close help")
	}
}

func TestParseDue(t *testing.T) {
	got, err := parseDue("2024-06-01 18:30")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 6, 1, 18, 30, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, err := parseDue("  "); err != nil || !got.IsZero() {
		t.Fatalf("blank due should be zero, got %v %v", got, err)
	}
	if _, err := parseDue("tomorrow"); err == nil {
		t.Fatalf("expected error for free text")
	}
}
