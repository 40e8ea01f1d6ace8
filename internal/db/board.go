package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tgienger/tasquest/internal/models"
)

// SaveBoard replaces the stored board with statuses in one transaction.
// Ordering is kept through the position columns.
func (db *DB) SaveBoard(ctx context.Context, statuses []models.Status) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save board: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"task_tags", "tasks", "goals", "statuses", "tags"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("save board: clear %s: %w", table, err)
		}
	}

	for si, st := range statuses {
		if err := insertStatus(ctx, tx, st, si); err != nil {
			return err
		}
		for gi, g := range st.Goals {
			if err := insertGoal(ctx, tx, st.ID.String(), g, gi); err != nil {
				return err
			}
			for ti, t := range g.Tasks {
				if err := insertTask(ctx, tx, g.ID.String(), t, ti); err != nil {
					return err
				}
				if err := insertTaskTags(ctx, tx, t); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save board: commit: %w", err)
	}
	return nil
}

// LoadBoard reads the whole board back in stored order. An empty database
// yields an empty board.
func (db *DB) LoadBoard(ctx context.Context) ([]models.Status, error) {
	taskTags, err := db.loadTaskTags(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := db.loadTasks(ctx, taskTags)
	if err != nil {
		return nil, err
	}
	goals, err := db.loadGoals(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return db.loadStatuses(ctx, goals)
}

// BoardEmpty reports whether no status has been saved yet
func (db *DB) BoardEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM statuses").Scan(&count); err != nil {
		return false, fmt.Errorf("count statuses: %w", err)
	}
	return count == 0, nil
}

func execErr(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("save board: %s: %w", what, err)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
