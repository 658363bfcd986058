package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/evanschultz/tableau/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// SeedTask describes one task present when a session starts.
type SeedTask struct {
	Title     string
	Priority  domain.Priority
	Completed bool
}

// DefaultSeedTasks returns the tasks shown on a fresh dashboard.
func DefaultSeedTasks() []SeedTask {
	return []SeedTask{
		{Title: "Réviser les composants React", Priority: domain.PriorityHigh},
		{Title: "Implémenter l'authentification", Priority: domain.PriorityMedium, Completed: true},
		{Title: "Optimiser les performances", Priority: domain.PriorityLow},
	}
}

// Dashboard is a derived snapshot of the store: stats and the visible list are
// recomputed from the task sequence on every read.
type Dashboard struct {
	Tasks      []domain.Task `json:"tasks"`
	Visible    []domain.Task `json:"visible"`
	Stats      domain.Stats  `json:"stats"`
	SearchTerm string        `json:"searchTerm"`
	Draft      string        `json:"draft"`
}

// Service is the session state store: the task sequence, the add-form draft and
// the search term.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock

	mu         sync.RWMutex
	draft      string
	searchTerm string
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = NewSequence(0)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		idGen: idGen,
		clock: clock,
	}
}

// SeedTasks appends the initial tasks in order.
func (s *Service) SeedTasks(ctx context.Context, seeds []SeedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	for idx, seed := range seeds {
		task, err := domain.NewTask(domain.TaskInput{
			ID:        s.idGen(),
			Title:     seed.Title,
			Completed: seed.Completed,
			Priority:  seed.Priority,
		}, now)
		if err != nil {
			return fmt.Errorf("seed task %d: %w", idx, err)
		}
		if err := s.repo.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("seed task %d: %w", idx, err)
		}
	}
	return nil
}

// AddTask appends a pending medium-priority task titled with the trimmed draft
// text. The stored draft is cleared only while it still holds draftText, so
// text typed after dispatch survives. Blank text is ignored and reported as not added.
func (s *Service) AddTask(ctx context.Context, draftText string) (domain.Task, bool, error) {
	title := strings.TrimSpace(draftText)
	if title == "" {
		return domain.Task{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := domain.NewTask(domain.TaskInput{
		ID:       s.idGen(),
		Title:    title,
		Priority: domain.PriorityMedium,
	}, s.clock())
	if err != nil {
		return domain.Task{}, false, err
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return domain.Task{}, false, fmt.Errorf("create task: %w", err)
	}
	if s.draft == draftText {
		s.draft = ""
	}
	return task, true, nil
}

// ToggleTask flips the completion flag of one task in place. Unknown ids are a no-op.
func (s *Service) ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, fmt.Errorf("get task %d: %w", id, err)
	}
	task.Toggle()
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, false, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, true, nil
}

// SetSearchTerm stores term verbatim.
func (s *Service) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
}

// SetDraft stores the pending add-form text.
func (s *Service) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Dashboard returns the derived view of the current state.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list tasks: %w", err)
	}
	return Dashboard{
		Tasks:      tasks,
		Visible:    domain.FilterTasks(tasks, s.searchTerm),
		Stats:      domain.ComputeStats(tasks),
		SearchTerm: s.searchTerm,
		Draft:      s.draft,
	}, nil
}
