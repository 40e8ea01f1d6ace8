package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the board understands
type KeyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	PrevStatus key.Binding
	NextStatus key.Binding
	Enter      key.Binding
	Star       key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Trash      key.Binding
	Restore    key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Save       key.Binding
	Help       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevStatus: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev status")),
		NextStatus: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next status")),
		Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "details")),
		Star:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star goal")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "trash")),
		Trash:      key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "trash bin")),
		Restore:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp is the one-line help shown under the board
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Star, k.New, k.Delete, k.Trash, k.Help, k.Quit}
}

// FullHelp is shown in the help popup
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevStatus, k.NextStatus},
		{k.Enter, k.Star, k.New, k.Edit, k.Delete},
		{k.Trash, k.Restore, k.Back, k.Quit},
	}
}

// FormHelp lists the manage-task modal bindings
func (k KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Save, k.Back}
}
