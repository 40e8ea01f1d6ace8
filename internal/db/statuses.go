package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/models"
)

func insertStatus(ctx context.Context, tx execer, st models.Status, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO statuses (id, name, position) VALUES (?, ?, ?)
	`, st.ID, st.Name, position)
	return execErr("insert status", err)
}

func insertGoal(ctx context.Context, tx execer, statusID string, g models.Goal, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO goals (id, status_id, name, due_date, is_starred, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, statusID, g.Name, g.DueDate, g.IsStarred, position)
	return execErr("insert goal", err)
}

// loadStatuses attaches goals (keyed by status ID) to every stored status
func (db *DB) loadStatuses(ctx context.Context, goals map[uuid.UUID][]models.Goal) ([]models.Status, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name FROM statuses ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.Status
	for rows.Next() {
		var st models.Status
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		st.Goals = goals[st.ID]
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// loadGoals groups goals by status, attaching tasks keyed by goal ID
func (db *DB) loadGoals(ctx context.Context, tasks map[uuid.UUID][]models.Task) (map[uuid.UUID][]models.Goal, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, status_id, name, due_date, is_starred
		FROM goals ORDER BY status_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	defer rows.Close()

	out := map[uuid.UUID][]models.Goal{}
	for rows.Next() {
		var g models.Goal
		var statusID uuid.UUID
		if err := rows.Scan(&g.ID, &statusID, &g.Name, &g.DueDate, &g.IsStarred); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Tasks = tasks[g.ID]
		out[statusID] = append(out[statusID], g)
	}
	return out, rows.Err()
}
