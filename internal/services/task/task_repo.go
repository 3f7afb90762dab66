package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrTaskNotFound = errors.New("task not found")

// Repository is the task store consumed by the task service. TaskRepo is the
// production implementation; MemoryRepo backs unit tests.
type Repository interface {
	ListAll(ctx context.Context) ([]*Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Task, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	IsOwner(ctx context.Context, taskID, userID int64) (bool, error)
	Create(ctx context.Context, title, description string, status Status, ownerID int64) (*Task, error)
	Update(ctx context.Context, id int64, req *UpdateTaskRequest) (*Task, error)
	Delete(ctx context.Context, id int64) error
}

// TaskRepo handles database operations for tasks
type TaskRepo struct {
	db *sqlx.DB
}

// NewTaskRepo creates a new task repository
func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]*Task, error) {
	query := `
        SELECT id, user_id, title, description, status
        FROM tasks
        ORDER BY id
    `

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*Task, error) {
	query := `
        SELECT id, user_id, title, description, status
        FROM tasks
        WHERE user_id = $1
        ORDER BY id
    `

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*Task, error) {
	query := `
        SELECT id, user_id, title, description, status
        FROM tasks
        WHERE id = $1
    `

	var t Task
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) IsOwner(ctx context.Context, taskID, userID int64) (bool, error) {
	query := `SELECT user_id FROM tasks WHERE id = $1`

	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID, query, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get task owner: %w", err)
	}
	return ownerID == userID, nil
}

func (r *TaskRepo) Create(ctx context.Context, title, description string, status Status, ownerID int64) (*Task, error) {
	query := `
        INSERT INTO tasks (title, description, status, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, title, description, status
    `

	var t Task
	err := r.db.GetContext(ctx, &t, query, title, description, int(status), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) Update(ctx context.Context, id int64, req *UpdateTaskRequest) (*Task, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *req.Title)
	}

	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *req.Description)
	}

	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, int(*req.Status))
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE tasks
        SET %s
        WHERE id = $%d
        RETURNING id, user_id, title, description, status
    `, strings.Join(setParts, ", "), len(args))

	var t Task
	err := r.db.GetContext(ctx, &t, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
