package user

import "fmt"

// Role is stored as an integer code, matching the legacy schema.
type Role int

const (
	RoleAdmin       Role = 1
	RoleParticipant Role = 2
)

func (r Role) Title() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleParticipant:
		return "participant"
	}
	return "unknown"
}

func RoleFromInt(value int) (Role, error) {
	switch value {
	case 1:
		return RoleAdmin, nil
	case 2:
		return RoleParticipant, nil
	}
	return 0, fmt.Errorf("invalid role ID: %d", value)
}

// User records are immutable after registration; there is no update path.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role"`
}

// Actor identifies the authenticated user performing an operation. Its ID is
// always derived from a verified token subject, never from request input.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
