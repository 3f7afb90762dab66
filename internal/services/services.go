package services

import (
	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/db"
	"github.com/taskboard/taskboard/internal/services/task"
	"github.com/taskboard/taskboard/internal/services/user"
)

type Services struct {
	User *user.Service
	Task *task.Service

	// Users is exposed for the request authenticator, which resolves token
	// subjects into actors.
	Users user.Repository
}

// NewServices wires the Postgres-backed services used by the server command.
func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	users := user.NewUserRepo(dbconn)
	tasks := task.NewTaskRepo(dbconn)

	return &Services{
		User:  user.NewService(users),
		Task:  task.NewService(tasks),
		Users: users,
	}
}

// NewServicesWithRepos wires services over arbitrary repositories. Tests use
// it with the in-memory implementations.
func NewServicesWithRepos(users user.Repository, tasks task.Repository) *Services {
	return &Services{
		User:  user.NewService(users),
		Task:  task.NewService(tasks),
		Users: users,
	}
}
