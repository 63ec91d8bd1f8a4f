package client

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dmitrijs2005/incidentkeeper/internal/client/config"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/protocol"
)

// Client is safe for concurrent use; it holds no connection between calls.
type Client struct {
	endpointURL string
	dialer      func(ctx context.Context, network, address string) (net.Conn, error)
}

func New(cfg *config.Config) *Client {
	d := &net.Dialer{Timeout: cfg.DialTimeout}
	return &Client{
		endpointURL: cfg.ServerEndpointAddr,
		dialer:      d.DialContext,
	}
}

// Login authenticates, registering the user on first login, and returns
// the current incident list.
func (c *Client) Login(ctx context.Context, username, password string) ([]models.Incident, error) {
	return c.call(ctx, protocol.NewMessage(protocol.TypeLogin, username, password))
}

func (c *Client) AddIncident(ctx context.Context, reportedBy, location, description string) ([]models.Incident, error) {
	return c.call(ctx, protocol.NewMessage(protocol.TypeAddIncident, reportedBy, location, description))
}

func (c *Client) UpdateIncident(ctx context.Context, id, reportedBy, location, description string) ([]models.Incident, error) {
	return c.call(ctx, protocol.NewMessage(protocol.TypeUpdateIncident, id, reportedBy, location, description))
}

func (c *Client) DeleteIncident(ctx context.Context, id string) ([]models.Incident, error) {
	return c.call(ctx, protocol.Message{Type: protocol.TypeDeleteIncident, Payload: id})
}

// Subscribe calls fn with the current list and then with every pushed list
// until ctx is cancelled or the server closes the connection. It returns
// nil when ctx ends the subscription.
func (c *Client) Subscribe(ctx context.Context, fn func([]models.Incident)) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := send(conn, protocol.Message{Type: protocol.TypeSubscribe}); err != nil {
		return subscriptionEnd(ctx, err)
	}

	r := protocol.NewReader(conn)
	for {
		incidents, err := receive(r)
		if err != nil {
			return subscriptionEnd(ctx, err)
		}
		fn(incidents)
	}
}

func (c *Client) call(ctx context.Context, m protocol.Message) ([]models.Incident, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := send(conn, m); err != nil {
		return nil, c.ctxOr(ctx, err)
	}

	incidents, err := receive(protocol.NewReader(conn))
	if err != nil {
		return nil, c.ctxOr(ctx, err)
	}
	return incidents, nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	conn, err := c.dialer(ctx, "tcp", c.endpointURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return conn, nil
}

// ctxOr prefers the context's error once it is done: closing the
// connection on cancel surfaces as an I/O error otherwise.
func (c *Client) ctxOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func subscriptionEnd(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func send(conn net.Conn, m protocol.Message) error {
	data, err := protocol.EncodeMessage(m)
	if err != nil {
		return err
	}
	if err := protocol.WriteLine(conn, data); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func receive(r *protocol.Reader) ([]models.Incident, error) {
	line, err := r.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	reply, err := protocol.DecodeReply(line)
	if err != nil {
		return nil, err
	}
	if reply.Type == protocol.TypeFail {
		return nil, &ServerError{Message: reply.Failure()}
	}
	return reply.Incidents()
}

// IsRejected reports whether err is a fail reply from the server.
func IsRejected(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
