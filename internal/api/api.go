package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskboard/taskboard/internal/api/authenticator"
	"github.com/taskboard/taskboard/internal/api/response"
	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/services"
)

// Server is the HTTP server for the task-tracking API.
type Server struct {
	srv      *fasthttp.Server
	addr     string
	services *services.Services
	auth     *authenticator.Authenticator
}

// New wires a server around the given services. Repositories are injected
// through the services container, so tests can run the full HTTP surface over
// in-memory stores.
func New(conf *config.Config, svc *services.Services) *Server {
	response.SetDevMode(conf.IS_DEV)

	s := &Server{
		srv:      &fasthttp.Server{},
		addr:     fmt.Sprintf("0.0.0.0:%s", conf.HTTP_PORT),
		services: svc,
		auth:     authenticator.New(conf, svc.Users),
	}

	s.srv.Handler = s.initRoutes()

	return s
}

// Start the rest server
func (s *Server) Start() {
	slog.Info("Starting REST server...", slog.String("addr", s.addr))
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!")

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

// shutdown shuts down the rest server
func (s *Server) shutdown(_ context.Context) {
	slog.Info("Gracefully shutting down REST server...")
	if err := s.srv.Shutdown(); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	slog.Info("REST server shutdown!")
}
