package task

import "fmt"

// Status is stored and serialized as an integer code, matching the legacy
// schema and API. There is no enforced transition graph: any status may be
// updated to any other.
type Status int

const (
	StatusPending    Status = 1
	StatusInProgress Status = 2
	StatusFinished   Status = 3
)

func StatusFromCode(code int) (Status, error) {
	switch code {
	case 1:
		return StatusPending, nil
	case 2:
		return StatusInProgress, nil
	case 3:
		return StatusFinished, nil
	}
	return 0, fmt.Errorf("invalid status: %d", code)
}

type Task struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"user_id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Status      Status `db:"status" json:"status"`
}

// UpdateTaskRequest carries a partial update; nil fields keep their previous
// value.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Status      *Status
}

func (r *UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil
}
