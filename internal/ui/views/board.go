package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/store"
	"github.com/tgienger/tasquest/internal/tags"
	"github.com/tgienger/tasquest/internal/ui/keys"
	"github.com/tgienger/tasquest/internal/ui/styles"
)

const (
	lastStatusKey = "last_status_id"
	taskNameWidth = 24
)

// Settings persists small bits of UI state between runs
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type mode int

const (
	modeBoard mode = iota
	modeDetail
	modeManage
	modeTrash
	modeHelp
)

// row is a goal header or one of its visible tasks
type row struct {
	goal    models.Goal
	task    *models.Task
	index   int // position among the goal's visible tasks
	visible int // visible task count of the goal
}

func (r row) id() uuid.UUID {
	if r.task != nil {
		return r.task.ID
	}
	return r.goal.ID
}

// BoardView shows one status at a time with its goals and their visible tasks
type BoardView struct {
	store    *store.Store
	settings Settings
	styles   *styles.Styles
	keys     keys.KeyMap
	help     help.Model
	width    int
	height   int

	statuses  []models.Status
	statusIdx int
	rows      []row
	cursor    int
	scrollY   int

	mode     mode
	detailID uuid.UUID
	form     *manageForm

	trash       []trashedTask
	trashCursor int

	status string
	notice string
}

func NewBoardView(s *store.Store, settings Settings) *BoardView {
	st := styles.NewStyles()
	km := keys.DefaultKeyMap()

	h := help.New()
	h.Styles.ShortKey = st.HelpKey
	h.Styles.ShortDesc = st.HelpDesc
	h.Styles.FullKey = st.HelpKey
	h.Styles.FullDesc = st.HelpDesc

	v := &BoardView{
		store:    s,
		settings: settings,
		styles:   st,
		keys:     km,
		help:     h,
		form:     newManageForm(s, st, km, h),
	}
	v.Refresh()
	return v
}

// Init restores the status that was open last time
func (v *BoardView) Init() tea.Cmd {
	if v.settings == nil {
		return nil
	}
	raw, err := v.settings.GetSetting(lastStatusKey)
	if err != nil || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	for i, st := range v.statuses {
		if st.ID == id {
			v.statusIdx = i
			v.cursor, v.scrollY = 0, 0
			v.rebuildRows(uuid.Nil)
			break
		}
	}
	return nil
}

// Refresh re-reads the board, keeping the selection on the same goal or task
func (v *BoardView) Refresh() {
	var selected uuid.UUID
	if v.cursor < len(v.rows) {
		selected = v.rows[v.cursor].id()
	}
	v.statuses = v.store.Statuses()
	if v.statusIdx >= len(v.statuses) {
		v.statusIdx = max(len(v.statuses)-1, 0)
	}
	v.rebuildRows(selected)
	if v.mode == modeTrash {
		v.trash = collectTrash(v.statuses)
		v.trashCursor = clamp(v.trashCursor, 0, max(len(v.trash)-1, 0))
	}
}

func (v *BoardView) rebuildRows(selected uuid.UUID) {
	v.rows = v.rows[:0]
	if st, ok := v.currentStatus(); ok {
		for _, g := range st.Goals {
			visible := g.VisibleTasks()
			v.rows = append(v.rows, row{goal: g, visible: len(visible)})
			for i := range visible {
				v.rows = append(v.rows, row{goal: g, task: &visible[i], index: i, visible: len(visible)})
			}
		}
	}

	if selected != uuid.Nil {
		for i, r := range v.rows {
			if r.id() == selected {
				v.cursor = i
				v.ensureVisible()
				return
			}
		}
	}
	v.cursor = clamp(v.cursor, 0, max(len(v.rows)-1, 0))
	v.ensureVisible()
}

func (v *BoardView) currentStatus() (models.Status, bool) {
	if v.statusIdx < len(v.statuses) {
		return v.statuses[v.statusIdx], true
	}
	return models.Status{}, false
}

func (v *BoardView) selected() (row, bool) {
	if v.cursor < len(v.rows) {
		return v.rows[v.cursor], true
	}
	return row{}, false
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.help.Width = styles.ContentWidth(msg.Width)
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case modeHelp:
			// Any key closes the help popup
			v.mode = modeBoard
			return v, nil
		case modeManage:
			return v.updateManage(msg)
		case modeDetail:
			return v.updateDetail(msg)
		case modeTrash:
			return v.updateTrash(msg)
		}
		return v.updateBoard(msg)
	}

	// Cursor blink and other input messages
	if v.mode == modeManage {
		return v, v.form.forward(msg)
	}
	return v, nil
}

func (v *BoardView) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.status, v.notice = "", ""

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.PrevStatus):
		v.switchStatus(-1)

	case key.Matches(msg, v.keys.NextStatus):
		v.switchStatus(1)

	case key.Matches(msg, v.keys.Star):
		if r, ok := v.selected(); ok {
			v.check(v.store.ToggleStarred(r.goal.ID))
		}

	case key.Matches(msg, v.keys.Enter):
		if r, ok := v.selected(); ok && r.task != nil {
			v.detailID = r.task.ID
			v.mode = modeDetail
		}

	case key.Matches(msg, v.keys.New):
		r, ok := v.selected()
		if !ok {
			v.status = "no goal to add a task to"
			return v, nil
		}
		v.mode = modeManage
		return v, v.form.startNew(r.goal.ID)

	case key.Matches(msg, v.keys.Edit):
		if r, ok := v.selected(); ok && r.task != nil {
			v.mode = modeManage
			return v, v.form.startEdit(*r.task)
		}

	case key.Matches(msg, v.keys.Delete):
		if r, ok := v.selected(); ok && r.task != nil {
			if v.check(v.store.TrashTask(r.task.ID)) {
				v.notice = "task moved to trash (T to view)"
			}
		}

	case key.Matches(msg, v.keys.Trash):
		v.mode = modeTrash
		v.trashCursor = 0
		v.trash = collectTrash(v.statuses)

	case key.Matches(msg, v.keys.Help):
		v.mode = modeHelp
	}
	return v, nil
}

func (v *BoardView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.mode = modeBoard
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Edit):
		t, err := v.store.Task(v.detailID)
		if v.check(err) {
			v.mode = modeManage
			return v, v.form.startEdit(t)
		}
		v.mode = modeBoard
	case key.Matches(msg, v.keys.Delete):
		v.check(v.store.TrashTask(v.detailID))
		v.mode = modeBoard
	}
	return v, nil
}

func (v *BoardView) updateManage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, cmd := v.form.Update(msg)
	if done {
		v.mode = modeBoard
		v.Refresh()
	}
	return v, cmd
}

func (v *BoardView) updateTrash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Trash):
		v.mode = modeBoard
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Up):
		if v.trashCursor > 0 {
			v.trashCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.trashCursor < len(v.trash)-1 {
			v.trashCursor++
		}
	case key.Matches(msg, v.keys.Restore):
		if v.trashCursor < len(v.trash) {
			v.check(v.store.RestoreTask(v.trash[v.trashCursor].task.ID))
		}
	}
	return v, nil
}

// check reports err on the status line and refreshes the board
func (v *BoardView) check(err error) bool {
	if err != nil {
		v.status = describeError(err)
		return false
	}
	v.Refresh()
	return true
}

func (v *BoardView) switchStatus(dir int) {
	if len(v.statuses) == 0 {
		return
	}
	v.statusIdx = (v.statusIdx + dir + len(v.statuses)) % len(v.statuses)
	v.cursor, v.scrollY = 0, 0
	v.rebuildRows(uuid.Nil)
	if v.settings == nil {
		return
	}
	if err := v.settings.SetSetting(lastStatusKey, v.statuses[v.statusIdx].ID.String()); err != nil {
		v.status = "could not remember status: " + err.Error()
	}
}

// visibleRows is how many board rows fit; task rows take two lines
func (v *BoardView) visibleRows() int {
	if v.height <= 0 {
		return len(v.rows)
	}
	return max((v.height-8)/2, 1)
}

func (v *BoardView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *BoardView) View() string {
	switch v.mode {
	case modeHelp:
		return v.renderHelpPopup()
	case modeManage:
		return v.form.View(v.width, v.height)
	case modeTrash:
		return renderTrash(v.styles, v.trash, v.trashCursor, v.width, v.height)
	case modeDetail:
		t, err := v.store.Task(v.detailID)
		if err == nil {
			return renderTaskDetail(v.styles, t, v.width, v.height)
		}
		v.mode = modeBoard
	}

	var b strings.Builder
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(v.renderRows())
	b.WriteString("\n")
	switch {
	case v.status != "":
		b.WriteString(v.styles.Error.Render(v.status))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.StatusBar.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render(v.help.View(v.keys)))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderTabs() string {
	s := v.styles
	if len(v.statuses) == 0 {
		return s.Title.Render("tasquest")
	}
	tabs := make([]string, len(v.statuses))
	for i, st := range v.statuses {
		style := s.Tab
		if i == v.statusIdx {
			style = s.TabActive
		}
		tabs[i] = style.Render(st.Name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *BoardView) renderRows() string {
	s := v.styles
	st, ok := v.currentStatus()
	if !ok {
		return s.TitleMuted.Render("No statuses on the board.")
	}
	if len(v.rows) == 0 {
		return s.TitleMuted.Render(fmt.Sprintf("No goals in %s.", st.Name))
	}

	end := min(v.scrollY+v.visibleRows(), len(v.rows))
	lines := make([]string, 0, end-v.scrollY)
	for i := v.scrollY; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *BoardView) renderRow(r row, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}

	if r.task == nil {
		header := fmt.Sprintf("%s %s  %s",
			s.Star.Render(starGlyph(r.goal.IsStarred)),
			s.GoalHeader.Render(r.goal.Name),
			s.Due.Render(formatDate(r.goal.DueDate)),
		)
		if r.visible == 0 {
			header += "  " + s.TitleMuted.Render("no tasks")
		}
		return style.Width(width).Render(header)
	}

	gutter := " "
	if r.index < ConnectorSpan(r.visible) {
		gutter = "│"
	}
	gutter = s.Connector.Render(gutter)

	// Tasks are two lines: name and health, then tags and due date
	t := *r.task
	name := lipgloss.NewStyle().Width(taskNameWidth).Render(tags.Truncate(t.Name, taskNameWidth-3))
	first := fmt.Sprintf("%s %s %s", gutter, name, renderHealthBar(s, meterOf(t), listBarWidth))
	second := gutter + "   " + listChips(s, t)
	if !t.DueDate.IsZero() {
		second += "  " + s.Due.Render(formatDate(t.DueDate))
	}
	return style.Width(width).Render(first + "\n" + second)
}

func (v *BoardView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Keyboard Shortcuts"),
		"",
		v.help.FullHelpView(v.keys.FullHelp()),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
