package task

import "github.com/taskboard/taskboard/internal/services/user"

// Access decisions are pure functions of the actor and the task. Read, write,
// and delete all use the same owner-or-admin rule; listing the global set is
// admin-only.

func CanRead(actor user.Actor, t *Task) bool {
	return actor.IsAdmin() || actor.ID == t.UserID
}

func CanWrite(actor user.Actor, t *Task) bool {
	return actor.IsAdmin() || actor.ID == t.UserID
}

func CanDelete(actor user.Actor, t *Task) bool {
	return actor.IsAdmin() || actor.ID == t.UserID
}

func CanListAll(actor user.Actor) bool {
	return actor.IsAdmin()
}
