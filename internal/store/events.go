package store

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind says what a mutation did
type EventKind int

const (
	BoardLoaded EventKind = iota
	StatusCreated
	GoalCreated
	GoalStarToggled
	TaskCreated
	TaskUpdated
	TaskTrashed
	TaskRestored
	HealthDecayed
)

var eventKindNames = map[EventKind]string{
	BoardLoaded:     "board_loaded",
	StatusCreated:   "status_created",
	GoalCreated:     "goal_created",
	GoalStarToggled: "goal_star_toggled",
	TaskCreated:     "task_created",
	TaskUpdated:     "task_updated",
	TaskTrashed:     "task_trashed",
	TaskRestored:    "task_restored",
	HealthDecayed:   "health_decayed",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is broadcast once per successful mutation. ID is the affected entity,
// or uuid.Nil for board-wide changes (BoardLoaded, HealthDecayed).
type Event struct {
	Kind EventKind
	ID   uuid.UUID
}

// Listener receives store events. It runs on the mutating goroutine after the
// store lock is released, so it may read from or write to the store.
type Listener func(Event)

// Subscription is the handle returned by Subscribe
type Subscription struct {
	entry  *listenerEntry
	cancel func()
}

// Close unsubscribes. Closing twice is harmless.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

type listenerEntry struct {
	fn     Listener
	active bool
}

// broadcaster fans events out to listeners in subscription order
type broadcaster struct {
	mu        sync.Mutex
	listeners []*listenerEntry
}

func (b *broadcaster) add(fn Listener) *listenerEntry {
	entry := &listenerEntry{fn: fn, active: true}
	b.mu.Lock()
	b.listeners = append(b.listeners, entry)
	b.mu.Unlock()
	return entry
}

func (b *broadcaster) remove(entry *listenerEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if entry == nil || !entry.active {
		return
	}
	entry.active = false
	for i, e := range b.listeners {
		if e == entry {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			break
		}
	}
}

func (b *broadcaster) publish(event Event) {
	b.mu.Lock()
	snapshot := append([]*listenerEntry(nil), b.listeners...)
	b.mu.Unlock()
	for _, entry := range snapshot {
		// a listener earlier in this round may have unsubscribed a later one
		if b.isActive(entry) {
			entry.fn(event)
		}
	}
}

func (b *broadcaster) isActive(entry *listenerEntry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return entry.active
}

func (b *broadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
