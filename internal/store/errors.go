package store

import (
	"errors"
	"fmt"

	"github.com/tgienger/tasquest/internal/health"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgs     = errors.New("invalid args")
	// ErrInvalidHealthRange is the health package sentinel, so either can be
	// matched with errors.Is.
	ErrInvalidHealthRange = health.ErrInvalidRange
)

// NotFoundError names the entity a lookup failed on
type NotFoundError struct {
	Kind string // "status", "goal", "task" or "tag"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IndexError carries the index path that fell outside the board
type IndexError struct {
	Path []int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index path %v out of range", e.Path)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

func notFound(kind string, key fmt.Stringer) error {
	return &NotFoundError{Kind: kind, Key: key.String()}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgs, fmt.Sprintf(format, args...))
}
