// Package seed reads board fixtures written in YAML. Tags are declared once
// with their color and referenced by name from tasks; due dates may be
// absolute (due) or relative to load time (due_in).
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tgienger/tasquest/internal/health"
	"github.com/tgienger/tasquest/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultBoard []byte

const defaultMaxHealth = 100

type status struct {
	Name  string `yaml:"name"`
	Goals []goal `yaml:"goals"`
}

type goal struct {
	Name    string        `yaml:"name"`
	Due     time.Time     `yaml:"due"`
	DueIn   time.Duration `yaml:"due_in"`
	Starred bool          `yaml:"starred"`
	Tasks   []task        `yaml:"tasks"`
}

type task struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Due         time.Time     `yaml:"due"`
	DueIn       time.Duration `yaml:"due_in"`
	Health      *float64      `yaml:"health"`
	MaxHealth   *float64      `yaml:"max_health"`
	Hidden      bool          `yaml:"hidden"`
	Tags        []string      `yaml:"tags"`
}

// tagYAML lets the fixture spell tags as {name, color}
type tagYAML struct {
	Name  string       `yaml:"name"`
	Color models.Color `yaml:"color"`
}

// Default returns the embedded starter board
func Default(now time.Time) ([]models.Status, error) {
	return Parse(defaultBoard, now)
}

// Load reads a fixture from r
func Load(r io.Reader, now time.Time) ([]models.Status, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seed: read: %w", err)
	}
	return Parse(data, now)
}

// LoadFile reads a fixture from path
func LoadFile(path string, now time.Time) ([]models.Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return Load(f, now)
}

// Parse decodes a fixture. IDs are left nil for the store to assign.
func Parse(data []byte, now time.Time) ([]models.Status, error) {
	var raw struct {
		Tags     []tagYAML `yaml:"tags"`
		Statuses []status  `yaml:"statuses"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}

	tagsByName := make(map[string]models.Tag, len(raw.Tags))
	for _, t := range raw.Tags {
		if t.Name == "" {
			return nil, fmt.Errorf("seed: tag without a name")
		}
		if _, dup := tagsByName[t.Name]; dup {
			return nil, fmt.Errorf("seed: tag %q declared twice", t.Name)
		}
		tagsByName[t.Name] = models.Tag{Name: t.Name, Color: t.Color}
	}

	out := make([]models.Status, 0, len(raw.Statuses))
	for _, st := range raw.Statuses {
		if st.Name == "" {
			return nil, fmt.Errorf("seed: status without a name")
		}
		ms := models.Status{Name: st.Name}
		for _, g := range st.Goals {
			mg, err := g.build(now, tagsByName)
			if err != nil {
				return nil, fmt.Errorf("seed: status %q: %w", st.Name, err)
			}
			ms.Goals = append(ms.Goals, mg)
		}
		out = append(out, ms)
	}
	return out, nil
}

func (g goal) build(now time.Time, tagsByName map[string]models.Tag) (models.Goal, error) {
	if g.Name == "" {
		return models.Goal{}, fmt.Errorf("goal without a name")
	}
	mg := models.Goal{Name: g.Name, DueDate: due(g.Due, g.DueIn, now), IsStarred: g.Starred}
	for _, t := range g.Tasks {
		mt, err := t.build(now, tagsByName)
		if err != nil {
			return models.Goal{}, fmt.Errorf("goal %q: %w", g.Name, err)
		}
		mg.Tasks = append(mg.Tasks, mt)
	}
	return mg, nil
}

func (t task) build(now time.Time, tagsByName map[string]models.Tag) (models.Task, error) {
	if t.Name == "" {
		return models.Task{}, fmt.Errorf("task without a name")
	}
	maxHealth := float64(defaultMaxHealth)
	if t.MaxHealth != nil {
		maxHealth = *t.MaxHealth
	}
	current := maxHealth
	if t.Health != nil {
		current = *t.Health
	}
	if err := health.Validate(current, maxHealth); err != nil {
		return models.Task{}, fmt.Errorf("task %q: %w", t.Name, err)
	}

	mt := models.Task{
		Name:          t.Name,
		Description:   t.Description,
		DueDate:       due(t.Due, t.DueIn, now),
		CreatedAt:     now,
		UpdatedAt:     now,
		CurrentHealth: current,
		MaxHealth:     maxHealth,
		IsVisible:     !t.Hidden,
	}
	for _, name := range t.Tags {
		tag, ok := tagsByName[name]
		if !ok {
			return models.Task{}, fmt.Errorf("task %q: unknown tag %q", t.Name, name)
		}
		mt.Tags = append(mt.Tags, tag)
	}
	return mt, nil
}

func due(abs time.Time, rel time.Duration, now time.Time) time.Time {
	if !abs.IsZero() {
		return abs
	}
	if rel != 0 {
		return now.Add(rel)
	}
	return time.Time{}
}
