package db

import (
	"context"
	"time"

	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/store"
)

const autosaveTimeout = 5 * time.Second

// Board is the part of the store autosave needs
type Board interface {
	Statuses() []models.Status
	Subscribe(store.Listener) store.Subscription
}

// Autosave writes the board after every store change. Failures are logged and
// never reach the mutation that triggered them.
func (db *DB) Autosave(board Board) store.Subscription {
	return board.Subscribe(func(e store.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
		defer cancel()

		if err := db.SaveBoard(ctx, board.Statuses()); err != nil {
			db.log.Error("autosave failed", "event", e.Kind.String(), "error", err)
			return
		}
		db.log.Debug("board saved", "event", e.Kind.String())
	})
}
