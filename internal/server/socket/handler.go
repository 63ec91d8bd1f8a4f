// Package socket serves the line protocol over TCP: a listener that binds
// with retry and accepts connections, and a handler that runs one Session
// per connection.
package socket

import (
	"context"
	"net"

	"github.com/dmitrijs2005/incidentkeeper/internal/logging"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/notifier"
)

type UserService interface {
	Login(ctx context.Context, username, password string) (created bool, err error)
}

type IncidentService interface {
	List(ctx context.Context) ([]models.Incident, error)
	Add(ctx context.Context, reportedBy, location, description string) ([]models.Incident, error)
	Update(ctx context.Context, id, reportedBy, location, description string) ([]models.Incident, error)
	Delete(ctx context.Context, id string) ([]models.Incident, error)
}

type Notifier interface {
	Subscribe(h notifier.Handle, cb notifier.Callback[models.Incident])
	Unsubscribe(h notifier.Handle)
}

// Handler holds what every session shares. It is safe for concurrent use.
type Handler struct {
	users     UserService
	incidents IncidentService
	notifier  Notifier
	logger    logging.Logger
	buffer    int
}

// NewHandler builds a Handler. buffer is the number of pending pushes kept
// per subscriber; values below 1 are raised to 1.
func NewHandler(us UserService, is IncidentService, n Notifier, l logging.Logger, buffer int) *Handler {
	if buffer < 1 {
		buffer = 1
	}
	return &Handler{
		users:     us,
		incidents: is,
		notifier:  n,
		logger:    l.With("module", "session"),
		buffer:    buffer,
	}
}

// Serve runs a session on conn and returns when it ends. conn is closed on
// return.
func (h *Handler) Serve(ctx context.Context, conn net.Conn, args ...any) *Session {
	s := newSession(h, conn, h.logger.With(args...))
	s.Serve(ctx)
	return s
}
