package domain

import (
	"slices"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns the supported priorities in ascending order.
func Priorities() []Priority {
	return slices.Clone(validPriorities)
}

// ParsePriority normalizes raw input into a known priority. Blank input maps to medium.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !slices.Contains(validPriorities, p) {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Label returns the fixed French display label used by priority badges.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "Haute"
	case PriorityMedium:
		return "Moyenne"
	default:
		return "Basse"
	}
}

type Task struct {
	ID        int64
	Title     string
	Completed bool
	Priority  Priority
	CreatedAt time.Time
}

type TaskInput struct {
	ID        int64
	Title     string
	Completed bool
	Priority  Priority
}

func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)

	if in.ID <= 0 {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !slices.Contains(validPriorities, in.Priority) {
		return Task{}, ErrInvalidPriority
	}

	return Task{
		ID:        in.ID,
		Title:     in.Title,
		Completed: in.Completed,
		Priority:  in.Priority,
		CreatedAt: now.UTC(),
	}, nil
}

// Toggle flips the completion flag. Pending and completed are the only states.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}
