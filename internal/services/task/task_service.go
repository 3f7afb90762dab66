package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskboard/taskboard/internal/services/user"
)

var (
	ErrTitleRequired = errors.New("title is required")

	// ErrNoFieldsToUpdate rejects an update where every optional field was
	// omitted.
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrNotAllowed covers both a missing task and an actor without rights to
	// it, so mutation endpoints do not reveal which one it was.
	ErrNotAllowed = errors.New("not allowed")
)

// Service contains business logic for tasks, enforcing the access policy on
// every operation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every task for admins and the actor's own tasks otherwise.
func (s *Service) List(ctx context.Context, actor user.Actor) ([]*Task, error) {
	if CanListAll(actor) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByOwner(ctx, actor.ID)
}

// Create persists a new task owned by the actor. The status must already be
// resolved by the caller; defaulting happens at the API boundary.
func (s *Service) Create(ctx context.Context, title, description string, status Status, actor user.Actor) (*Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	t, err := s.repo.Create(ctx, title, description, status, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// Get fetches a task by id. A task the actor may not read is reported as
// ErrTaskNotFound, identical to a missing one, so unauthorized callers cannot
// probe for existence.
func (s *Service) Get(ctx context.Context, id int64, actor user.Actor) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanRead(actor, t) {
		return nil, ErrTaskNotFound
	}

	return t, nil
}

// Update applies the supplied fields to a task the actor may write. Omitted
// fields keep their previous values.
func (s *Service) Update(ctx context.Context, id int64, actor user.Actor, req *UpdateTaskRequest) (*Task, error) {
	if req.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrNotAllowed
		}
		return nil, err
	}

	if !CanWrite(actor, t) {
		return nil, ErrNotAllowed
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

// Delete permanently removes a task the actor may delete.
func (s *Service) Delete(ctx context.Context, id int64, actor user.Actor) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrNotAllowed
		}
		return err
	}

	if !CanDelete(actor, t) {
		return ErrNotAllowed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrNotAllowed
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
