package user

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository used by unit and API tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	users  map[int64]*User
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: map[int64]*User{}, nextID: 1}
}

func (r *MemoryRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepo) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepo) Create(_ context.Context, username, passwordHash string, role Role) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return nil, ErrUserAlreadyExists
		}
	}

	u := &User{ID: r.nextID, Username: username, PasswordHash: passwordHash, Role: role}
	r.users[u.ID] = u
	r.nextID++

	cp := *u
	return &cp, nil
}

func (r *MemoryRepo) IsAdmin(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	return ok && u.Role == RoleAdmin, nil
}
