// Package memory holds the default session task repository.
package memory

import (
	"context"
	"sync"

	"github.com/evanschultz/tableau/internal/app"
	"github.com/evanschultz/tableau/internal/domain"
)

// Repository keeps tasks in insertion order.
type Repository struct {
	mu    sync.RWMutex
	tasks []domain.Task
	index map[int64]int
}

// New constructs an empty repository.
func New() *Repository {
	return &Repository{
		index: map[int64]int{},
	}
}

// CreateTask appends a task to the end of the sequence.
func (r *Repository) CreateTask(_ context.Context, t domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[t.ID]; ok {
		return app.ErrDuplicateID
	}
	r.index[t.ID] = len(r.tasks)
	r.tasks = append(r.tasks, t)
	return nil
}

// UpdateTask replaces a task at its current position.
func (r *Repository) UpdateTask(_ context.Context, t domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.index[t.ID]
	if !ok {
		return app.ErrNotFound
	}
	r.tasks[idx] = t
	return nil
}

// GetTask returns task.
func (r *Repository) GetTask(_ context.Context, id int64) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.index[id]
	if !ok {
		return domain.Task{}, app.ErrNotFound
	}
	return r.tasks[idx], nil
}

// ListTasks returns a copy of the sequence.
func (r *Repository) ListTasks(context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

// Close releases the sequence. The repository is empty afterwards.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = nil
	r.index = map[int64]int{}
	return nil
}
