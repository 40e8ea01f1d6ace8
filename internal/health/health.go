// Package health implements the task health meter: the ratio of current to
// maximum health, its urgency bucket, its display label and its decay over time.
//
// Every renderer (list row, detail popup) and the store go through this
// package so the thresholds cannot drift apart.
package health

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidRange is returned when health values break 0 <= current <= max
var ErrInvalidRange = errors.New("invalid health range")

// Bucket classifies a health percentage by urgency
type Bucket int

const (
	Critical Bucket = iota
	Warning
	Healthy
)

func (b Bucket) String() string {
	switch b {
	case Healthy:
		return "healthy"
	case Warning:
		return "warning"
	default:
		return "critical"
	}
}

const (
	healthyAbove = 0.5
	warningAbove = 0.2
)

// Percentage returns current/max clamped to [0,1]. A zero max (no health
// bar) yields 0.
func Percentage(current, max float64) float64 {
	if max == 0 {
		return 0
	}
	p := current / max
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Classify maps a percentage to its bucket. Each bracket is exclusive on its
// lower bound: (0.5,1] healthy, (0.2,0.5] warning, everything else critical.
func Classify(p float64) Bucket {
	switch {
	case p > healthyAbove:
		return Healthy
	case p > warningAbove:
		return Warning
	default:
		return Critical
	}
}

// Label renders "current/max" with both values truncated toward zero
func Label(current, max float64) string {
	return fmt.Sprintf("%d/%d", int(current), int(max))
}

// Validate reports ErrInvalidRange unless 0 <= current <= max
func Validate(current, max float64) error {
	if math.IsNaN(current) || math.IsNaN(max) {
		return fmt.Errorf("%w: NaN", ErrInvalidRange)
	}
	if current < 0 || max < 0 {
		return fmt.Errorf("%w: negative value (%v/%v)", ErrInvalidRange, current, max)
	}
	if current > max {
		return fmt.Errorf("%w: current %v exceeds max %v", ErrInvalidRange, current, max)
	}
	return nil
}

// Meter pairs current and max health
type Meter struct {
	Current float64
	Max     float64
}

func (m Meter) Percentage() float64 { return Percentage(m.Current, m.Max) }
func (m Meter) Bucket() Bucket      { return Classify(m.Percentage()) }
func (m Meter) Label() string       { return Label(m.Current, m.Max) }

// Fill returns how many of width cells a bar should fill
func (m Meter) Fill(width int) int {
	if width <= 0 {
		return 0
	}
	n := int(math.Floor(m.Percentage() * float64(width)))
	return min(max(n, 0), width)
}

// Decay drains ratePerHour for every hour of elapsed, never below zero.
// A meter without a bar (Max == 0) does not decay.
func Decay(m Meter, ratePerHour float64, elapsed time.Duration) Meter {
	if m.Max == 0 || ratePerHour <= 0 || elapsed <= 0 {
		return m
	}
	m.Current -= ratePerHour * elapsed.Hours()
	if m.Current < 0 {
		m.Current = 0
	}
	return m
}
