package task

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository used by unit and API tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	tasks  map[int64]*Task
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: map[int64]*Task{}, nextID: 1}
}

func (r *MemoryRepo) ListAll(_ context.Context) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		cp := *t
		tasks = append(tasks, &cp)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (r *MemoryRepo) ListByOwner(_ context.Context, ownerID int64) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*Task, 0)
	for _, t := range r.tasks {
		if t.UserID == ownerID {
			cp := *t
			tasks = append(tasks, &cp)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id int64) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepo) IsOwner(_ context.Context, taskID, userID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	return ok && t.UserID == userID, nil
}

func (r *MemoryRepo) Create(_ context.Context, title, description string, status Status, ownerID int64) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := &Task{ID: r.nextID, UserID: ownerID, Title: title, Description: description, Status: status}
	r.tasks[t.ID] = t
	r.nextID++

	cp := *t
	return &cp, nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, req *UpdateTaskRequest) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}

	cp := *t
	return &cp, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}
