package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/models"
)

func insertTask(ctx context.Context, tx execer, goalID string, t models.Task, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, goal_id, name, description, due_date, created_at, updated_at,
			current_health, max_health, is_visible, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, goalID, t.Name, t.Description, t.DueDate, t.CreatedAt, t.UpdatedAt,
		t.CurrentHealth, t.MaxHealth, t.IsVisible, position)
	return execErr("insert task", err)
}

// loadTasks groups tasks by goal, trashed ones included, attaching their tags
func (db *DB) loadTasks(ctx context.Context, tags map[uuid.UUID][]models.Tag) (map[uuid.UUID][]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, goal_id, name, description, due_date, created_at, updated_at,
			current_health, max_health, is_visible
		FROM tasks
		ORDER BY goal_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	out := map[uuid.UUID][]models.Task{}
	for rows.Next() {
		var t models.Task
		var goalID uuid.UUID
		if err := rows.Scan(&t.ID, &goalID, &t.Name, &t.Description, &t.DueDate, &t.CreatedAt,
			&t.UpdatedAt, &t.CurrentHealth, &t.MaxHealth, &t.IsVisible); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Tags = tags[t.ID]
		out[goalID] = append(out[goalID], t)
	}
	return out, rows.Err()
}
