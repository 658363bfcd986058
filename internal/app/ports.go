package app

import (
	"context"

	"github.com/evanschultz/tableau/internal/domain"
)

// Repository holds the ordered task sequence for one session.
type Repository interface {
	CreateTask(context.Context, domain.Task) error
	UpdateTask(context.Context, domain.Task) error
	GetTask(context.Context, int64) (domain.Task, error)
	ListTasks(context.Context) ([]domain.Task, error)
}
