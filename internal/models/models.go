package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Color is a normalized RGB triple, each component in [0,1]
type Color struct {
	R, G, B float64
}

// Hex renders the color as #rrggbb for terminal styling
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int(math.Round(v * 255))
}

// MarshalYAML encodes the color as a [r, g, b] sequence
func (c Color) MarshalYAML() (any, error) {
	return []float64{c.R, c.G, c.B}, nil
}

// UnmarshalYAML decodes a [r, g, b] sequence
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var rgb []float64
	if err := node.Decode(&rgb); err != nil {
		return err
	}
	if len(rgb) != 3 {
		return fmt.Errorf("color: want 3 components, got %d", len(rgb))
	}
	for _, v := range rgb {
		if v < 0 || v > 1 {
			return fmt.Errorf("color: component %v outside [0,1]", v)
		}
	}
	c.R, c.G, c.B = rgb[0], rgb[1], rgb[2]
	return nil
}

// Tag is an immutable label; tags are identified by name
type Tag struct {
	Name  string
	Color Color
}

// Task is a unit of work with a depleting health meter
type Task struct {
	ID            uuid.UUID
	Name          string
	Description   string
	DueDate       time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CurrentHealth float64
	MaxHealth     float64
	IsVisible     bool // false once the task is in the trash
	Tags          []Tag
}

// Clone returns a copy that shares no slices with t
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]Tag(nil), t.Tags...)
	}
	return out
}

// Goal groups tasks and can be starred
type Goal struct {
	ID        uuid.UUID
	Name      string
	DueDate   time.Time
	IsStarred bool
	Tasks     []Task
}

// VisibleTasks returns the tasks not in the trash, in insertion order
func (g Goal) VisibleTasks() []Task {
	var out []Task
	for _, t := range g.Tasks {
		if t.IsVisible {
			out = append(out, t)
		}
	}
	return out
}

// TrashedTasks returns the soft-deleted tasks, in insertion order
func (g Goal) TrashedTasks() []Task {
	var out []Task
	for _, t := range g.Tasks {
		if !t.IsVisible {
			out = append(out, t)
		}
	}
	return out
}

// Clone deep-copies the goal and its tasks
func (g Goal) Clone() Goal {
	out := g
	if g.Tasks != nil {
		out.Tasks = make([]Task, len(g.Tasks))
		for i, t := range g.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	return out
}

// Status is a top-level board column holding goals
type Status struct {
	ID    uuid.UUID
	Name  string
	Goals []Goal
}

// Clone deep-copies the status and everything below it
func (s Status) Clone() Status {
	out := s
	if s.Goals != nil {
		out.Goals = make([]Goal, len(s.Goals))
		for i, g := range s.Goals {
			out.Goals[i] = g.Clone()
		}
	}
	return out
}
