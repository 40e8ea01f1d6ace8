package db

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(slog.New(slog.DiscardHandler), filepath.Join(t.TempDir(), "data", "tasquest.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleBoard() []models.Status {
	due := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	work := models.Tag{Name: "Work", Color: models.Color{R: 0.2, G: 0.4, B: 1}}
	urgent := models.Tag{Name: "Urgent", Color: models.Color{R: 1}}
	return []models.Status{
		{ID: uuid.New(), Name: "Todo", Goals: []models.Goal{
			{ID: uuid.New(), Name: "Launch", DueDate: due, IsStarred: true, Tasks: []models.Task{
				{ID: uuid.New(), Name: "Landing page", Description: "copy + hero", DueDate: due, CreatedAt: created, UpdatedAt: created,
					CurrentHealth: 30, MaxHealth: 100, IsVisible: true, Tags: []models.Tag{urgent, work}},
				{ID: uuid.New(), Name: "Old idea", CreatedAt: created, UpdatedAt: created, IsVisible: false},
			}},
			{ID: uuid.New(), Name: "Empty goal"},
		}},
		{ID: uuid.New(), Name: "Done"},
	}
}

func TestSaveAndLoadBoard(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	empty, err := database.BoardEmpty(ctx)
	if err != nil || !empty {
		t.Fatalf("expected empty board, got empty=%v err=%v", empty, err)
	}

	want := sampleBoard()
	if err := database.SaveBoard(ctx, want); err != nil {
		t.Fatalf("SaveBoard returned error: %v", err)
	}
	got, err := database.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("LoadBoard returned error: %v", err)
	}

	if len(got) != 2 || got[0].Name != "Todo" || got[1].Name != "Done" {
		t.Fatalf("status order lost: %+v", got)
	}
	if got[0].ID != want[0].ID {
		t.Fatalf("status id changed")
	}
	goals := got[0].Goals
	if len(goals) != 2 || goals[0].Name != "Launch" || goals[1].Name != "Empty goal" {
		t.Fatalf("goal order lost: %+v", goals)
	}
	if !goals[0].IsStarred || !goals[0].DueDate.Equal(want[0].Goals[0].DueDate) {
		t.Fatalf("goal fields lost: %+v", goals[0])
	}
	tasks := goals[0].Tasks
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	first := tasks[0]
	if first.Name != "Landing page" || first.Description != "copy + hero" || first.CurrentHealth != 30 || first.MaxHealth != 100 || !first.IsVisible {
		t.Fatalf("task fields lost: %+v", first)
	}
	if !first.CreatedAt.Equal(want[0].Goals[0].Tasks[0].CreatedAt) {
		t.Fatalf("created_at lost: %v", first.CreatedAt)
	}
	if len(first.Tags) != 2 || first.Tags[0].Name != "Urgent" || first.Tags[1].Color != (models.Color{R: 0.2, G: 0.4, B: 1}) {
		t.Fatalf("tags lost: %+v", first.Tags)
	}
	if tasks[1].IsVisible {
		t.Fatalf("trashed task came back visible")
	}
	if len(got[1].Goals) != 0 {
		t.Fatalf("expected empty status to stay empty")
	}

	empty, _ = database.BoardEmpty(ctx)
	if empty {
		t.Fatalf("board should not be empty after save")
	}
}

func TestSaveBoardReplaces(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	if err := database.SaveBoard(ctx, sampleBoard()); err != nil {
		t.Fatalf("SaveBoard returned error: %v", err)
	}
	if err := database.SaveBoard(ctx, []models.Status{{ID: uuid.New(), Name: "Only"}}); err != nil {
		t.Fatalf("SaveBoard returned error: %v", err)
	}
	got, err := database.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("LoadBoard returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Only" {
		t.Fatalf("expected board to be replaced, got %+v", got)
	}
	tags, err := database.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags returned error: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("stale tags survived: %+v", tags)
	}
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	v, err := database.GetSetting("last_status_id")
	if err != nil || v != "" {
		t.Fatalf("expected empty setting, got %q err=%v", v, err)
	}
	if err := database.SetSetting("last_status_id", "abc"); err != nil {
		t.Fatalf("SetSetting returned error: %v", err)
	}
	if err := database.SetSetting("last_status_id", "def"); err != nil {
		t.Fatalf("SetSetting returned error: %v", err)
	}
	if v, _ := database.GetSetting("last_status_id"); v != "def" {
		t.Fatalf("expected overwritten value, got %q", v)
	}
}

func TestAutosave(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	s := store.New()
	sub := database.Autosave(s)
	defer sub.Close()

	st, err := s.CreateStatus("Todo")
	if err != nil {
		t.Fatalf("CreateStatus returned error: %v", err)
	}
	g, err := s.CreateGoal(st.ID, store.GoalInput{Name: "Goal"})
	if err != nil {
		t.Fatalf("CreateGoal returned error: %v", err)
	}
	if err := s.ToggleStarred(g.ID); err != nil {
		t.Fatalf("ToggleStarred returned error: %v", err)
	}

	got, err := database.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("LoadBoard returned error: %v", err)
	}
	if len(got) != 1 || len(got[0].Goals) != 1 || !got[0].Goals[0].IsStarred {
		t.Fatalf("autosave did not persist the starred goal: %+v", got)
	}
}
