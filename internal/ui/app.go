package ui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasquest/internal/config"
	"github.com/tgienger/tasquest/internal/store"
	"github.com/tgienger/tasquest/internal/ui/views"
)

const (
	// Pending store events past this many are dropped; one refresh covers them all
	changeBuffer = 16

	lastDecayKey = "last_decay_at"
)

// storeChangedMsg carries a store event into the update loop
type storeChangedMsg struct {
	event store.Event
}

type decayTickMsg time.Time

type App struct {
	store    *store.Store
	settings views.Settings
	board    *views.BoardView
	decay    config.DecayConfig
	log      *slog.Logger

	sub      store.Subscription
	changes  chan store.Event
	done     chan struct{}
	lastTick time.Time
}

// Creates a new application
func NewApp(s *store.Store, settings views.Settings, decay config.DecayConfig, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{
		store:    s,
		settings: settings,
		decay:    decay,
		log:      log,
		changes:  make(chan store.Event, changeBuffer),
		done:     make(chan struct{}),
	}
	a.catchUp(time.Now())

	a.board = views.NewBoardView(s, settings)
	a.sub = s.Subscribe(func(e store.Event) {
		select {
		case a.changes <- e:
		default:
		}
	})
	return a
}

// catchUp drains the health lost while the program was closed
func (a *App) catchUp(now time.Time) {
	a.lastTick = now
	if a.settings != nil {
		raw, err := a.settings.GetSetting(lastDecayKey)
		if err != nil {
			a.log.Error("failed to read last decay time", "error", err)
		} else if raw != "" {
			last, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				a.log.Warn("ignoring bad last decay time", "value", raw, "error", err)
			} else if last.Before(now) {
				a.lastTick = last
			}
		}
	}
	a.decayUntil(now)
}

// decayUntil applies decay for the time since the last run and remembers now
func (a *App) decayUntil(now time.Time) {
	elapsed := now.Sub(a.lastTick)
	a.lastTick = now
	n, err := a.store.ApplyDecay(a.decay.RatePerHour, elapsed)
	if err != nil {
		a.log.Error("decay failed", "error", err)
		return
	}
	if n > 0 {
		a.log.Debug("health decayed", "tasks", n, "elapsed", elapsed)
	}
	if a.settings == nil {
		return
	}
	if err := a.settings.SetSetting(lastDecayKey, now.UTC().Format(time.RFC3339Nano)); err != nil {
		a.log.Error("failed to save last decay time", "error", err)
	}
}

// Close stops listening to the store
func (a *App) Close() {
	a.sub.Close()
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.board.Init(), a.waitForChange(), a.tick())
}

func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-a.changes:
			return storeChangedMsg{event: e}
		case <-a.done:
			return nil
		}
	}
}

func (a *App) tick() tea.Cmd {
	if a.decay.Interval <= 0 {
		return nil
	}
	return tea.Tick(a.decay.Interval, func(t time.Time) tea.Msg {
		return decayTickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		a.log.Debug("store changed", "kind", msg.event.Kind.String(), "id", msg.event.ID)
		a.board.Refresh()
		return a, a.waitForChange()

	case decayTickMsg:
		a.decayUntil(time.Time(msg))
		return a, a.tick()
	}

	_, cmd := a.board.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.board.View()
}
