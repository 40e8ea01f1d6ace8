package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/models"
)

// insertTaskTags stores the task's tags; a tag name already stored keeps its
// first color
func insertTaskTags(ctx context.Context, tx execer, t models.Task) error {
	for i, tag := range t.Tags {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO tags (name, red, green, blue) VALUES (?, ?, ?, ?)
		`, tag.Name, tag.Color.R, tag.Color.G, tag.Color.B)
		if err != nil {
			return execErr("insert tag", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag_name, position) VALUES (?, ?, ?)
		`, t.ID, tag.Name, i)
		if err != nil {
			return execErr("insert task tag", err)
		}
	}
	return nil
}

// loadTaskTags returns every task's tags in their stored order
func (db *DB) loadTaskTags(ctx context.Context) (map[uuid.UUID][]models.Tag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT tt.task_id, t.name, t.red, t.green, t.blue
		FROM task_tags tt
		JOIN tags t ON t.name = tt.tag_name
		ORDER BY tt.task_id, tt.position
	`)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	out := map[uuid.UUID][]models.Tag{}
	for rows.Next() {
		var taskID uuid.UUID
		var tag models.Tag
		if err := rows.Scan(&taskID, &tag.Name, &tag.Color.R, &tag.Color.G, &tag.Color.B); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out[taskID] = append(out[taskID], tag)
	}
	return out, rows.Err()
}

// ListTags returns all stored tags
func (db *DB) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, red, green, blue FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.Name, &t.Color.R, &t.Color.G, &t.Color.B); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
