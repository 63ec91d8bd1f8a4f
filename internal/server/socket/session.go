package socket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/logging"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/protocol"
)

const writeTimeout = 10 * time.Second

// State is the position of a session in its lifecycle.
type State int32

const (
	StateAwaitingRequest State = iota
	StateDispatching
	StateRepliedOnce
	StateSubscribed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingRequest:
		return "awaiting_request"
	case StateDispatching:
		return "dispatching"
	case StateRepliedOnce:
		return "replied_once"
	case StateSubscribed:
		return "subscribed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session serves one connection: one request, one reply, and for
// subscribers a stream of pushes until the peer goes away.
type Session struct {
	h      *Handler
	conn   net.Conn
	reader *protocol.Reader
	logger logging.Logger

	state     atomic.Int32
	closed    atomic.Bool
	closeOnce sync.Once
}

func newSession(h *Handler, conn net.Conn, logger logging.Logger) *Session {
	return &Session{
		h:      h,
		conn:   conn,
		reader: protocol.NewReader(conn),
		logger: logger,
	}
}

// Closed reports whether the connection has been closed by either side.
// Sessions are the notifier handles.
func (s *Session) Closed() bool { return s.closed.Load() }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) { s.state.Store(int32(st)) }

// Serve runs the session to completion and closes the connection.
func (s *Session) Serve(ctx context.Context) {
	defer s.close()

	line, err := s.reader.ReadLine()
	if err != nil {
		if errors.Is(err, common.ErrProtocol) {
			s.setState(StateDispatching)
			s.replyFail(ctx, err)
			s.setState(StateRepliedOnce)
			return
		}
		if !errors.Is(err, io.EOF) {
			s.logger.Warn(ctx, "read request", "error", err)
		}
		return
	}

	s.setState(StateDispatching)

	msg, err := protocol.DecodeMessage(line)
	if err != nil {
		s.logger.Warn(ctx, "bad request", "error", err)
		s.replyFail(ctx, err)
		s.setState(StateRepliedOnce)
		return
	}

	s.logger.Info(ctx, "message", "type", msg.Type)

	if msg.Type == protocol.TypeSubscribe || msg.Type == protocol.TypeListen {
		s.subscribe(ctx)
		return
	}

	incidents, err := s.handle(ctx, msg)
	if err != nil {
		s.logger.Warn(ctx, "request failed", "type", msg.Type, "error", err)
		s.replyFail(ctx, err)
	} else {
		s.replySuccess(ctx, incidents)
	}
	s.setState(StateRepliedOnce)
}

// handle executes a single non-subscribe request. A panic becomes an error.
func (s *Session) handle(ctx context.Context, msg protocol.Message) (incidents []models.Incident, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "request panicked", "type", msg.Type, "panic", fmt.Sprint(r))
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	switch msg.Type {
	case protocol.TypeLogin:
		f, err := protocol.SplitPayload(msg.Payload, 2)
		if err != nil {
			return nil, err
		}
		created, err := s.h.users.Login(ctx, f[0], f[1])
		if err != nil {
			return nil, err
		}
		if created {
			s.logger.Info(ctx, "registered user", "username", f[0])
		}
		return s.h.incidents.List(ctx)

	case protocol.TypeAddIncident:
		f, err := protocol.SplitPayload(msg.Payload, 3)
		if err != nil {
			return nil, err
		}
		return s.h.incidents.Add(ctx, f[0], f[1], f[2])

	case protocol.TypeUpdateIncident:
		f, err := protocol.SplitPayload(msg.Payload, 4)
		if err != nil {
			return nil, err
		}
		return s.h.incidents.Update(ctx, f[0], f[1], f[2], f[3])

	case protocol.TypeDeleteIncident:
		return s.h.incidents.Delete(ctx, msg.Payload)

	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownMessageType, msg.Type)
	}
}

// subscribe sends the current list, then pushes every snapshot published by
// the notifier until the peer disconnects or ctx is cancelled. The wait is
// a select on three channels; nothing polls.
func (s *Session) subscribe(ctx context.Context) {
	updates := make(chan []models.Incident, s.h.buffer)

	// Register before reading the list so no mutation falls between the
	// initial reply and the first push.
	s.h.notifier.Subscribe(s, func(snapshot []models.Incident) {
		offerLatest(updates, snapshot)
	})
	defer s.h.notifier.Unsubscribe(s)

	incidents, err := s.h.incidents.List(ctx)
	if err != nil {
		s.replyFail(ctx, err)
		s.setState(StateRepliedOnce)
		return
	}
	if err := s.replySuccess(ctx, incidents); err != nil {
		return
	}

	s.setState(StateSubscribed)
	s.logger.Info(ctx, "subscribed")

	peerGone := make(chan struct{})
	go func() {
		defer close(peerGone)
		if err := s.reader.Drain(); err != nil && !s.Closed() {
			s.logger.Debug(ctx, "subscriber read ended", "error", err)
		}
		s.closed.Store(true)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-peerGone:
			s.logger.Info(ctx, "subscriber disconnected")
			return
		case snapshot := <-updates:
			if err := s.replySuccess(ctx, snapshot); err != nil {
				return
			}
		}
	}
}

// offerLatest enqueues v without blocking. When ch is full the oldest
// pending snapshot is discarded: each snapshot is a full list, so the newest
// one supersedes it.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Session) replySuccess(ctx context.Context, incidents []models.Incident) error {
	data, err := protocol.EncodeSuccess(incidents)
	if err != nil {
		s.logger.Error(ctx, "encode reply", "error", err)
		return s.replyFail(ctx, err)
	}
	return s.write(ctx, data)
}

func (s *Session) replyFail(ctx context.Context, cause error) error {
	data, err := protocol.EncodeFail(cause.Error())
	if err != nil {
		s.logger.Error(ctx, "encode reply", "error", err)
		return err
	}
	return s.write(ctx, data)
}

func (s *Session) write(ctx context.Context, data []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		s.logger.Debug(ctx, "set write deadline", "error", err)
	}
	if err := protocol.WriteLine(s.conn, data); err != nil {
		s.logger.Warn(ctx, "write reply", "error", err)
		s.closed.Store(true)
		return err
	}
	return nil
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.State() == StateSubscribed {
			s.setState(StateClosed)
		}
		_ = s.conn.Close()
	})
}
