// internal/handlers/server.go
package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/mfigueroa/uno/internal/room"
)

// Server is the high-level struct behind the gateway: it owns the room
// registry that every websocket command is resolved against.
type Server struct {
	Registry *room.Registry
}

// NewServer builds a Server with an empty registry. Every room the
// registry creates gets its websocket delivery wired before it becomes
// visible to other connections.
func NewServer(logger *logrus.Logger) *Server {
	srv := &Server{
		Registry: room.NewRegistry(),
	}
	srv.Registry.OnCreate = func(r *room.Room) {
		attachBroadcasts(r, logger)
	}
	return srv
}
