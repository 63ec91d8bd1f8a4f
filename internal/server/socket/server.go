package socket

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/logging"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/config"
)

const (
	defaultBindRetryInterval = 500 * time.Millisecond
	acceptErrorPause         = 50 * time.Millisecond
)

// Server accepts TCP connections and hands each one to the Handler on its
// own goroutine.
type Server struct {
	address       string
	retryInterval time.Duration
	limit         *semaphore.Weighted
	handler       *Handler
	logger        logging.Logger

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	stopping bool
	wg       sync.WaitGroup

	ready chan struct{}
	addr  net.Addr
}

func NewServer(cfg *config.Config, l logging.Logger, h *Handler) *Server {
	s := &Server{
		address:       cfg.EndpointAddr,
		retryInterval: cfg.BindRetryInterval,
		handler:       h,
		logger:        l.With("module", "socket_server"),
		conns:         make(map[net.Conn]struct{}),
		ready:         make(chan struct{}),
	}
	if s.retryInterval <= 0 {
		s.retryInterval = defaultBindRetryInterval
	}
	if cfg.MaxConnections > 0 {
		s.limit = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}
	return s
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address. Valid after Ready is closed.
func (s *Server) Addr() net.Addr { return s.addr }

// Run binds the listener, retrying until it succeeds or ctx is done, and
// serves connections until ctx is cancelled. On the way out it closes every
// live connection and waits for their sessions to finish.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return err
	}

	s.addr = ln.Addr()
	close(s.ready)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping socket server...")
		_ = ln.Close()
		s.closeAll()
	}()

	s.logger.Info(ctx, "Starting socket server", "address", ln.Addr().String())

	s.acceptLoop(ctx, ln)
	s.wg.Wait()
	return nil
}

func (s *Server) listen(ctx context.Context) (net.Listener, error) {
	var ln net.Listener
	err := retry.Do(ctx, retry.NewConstant(s.retryInterval), func(ctx context.Context) error {
		l, err := net.Listen("tcp", s.address)
		if err != nil {
			s.logger.Warn(ctx, "Failed to create the server socket", "address", s.address, "error", err)
			return retry.RetryableError(err)
		}
		ln = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ln, nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		if s.limit != nil {
			if err := s.limit.Acquire(ctx, 1); err != nil {
				return
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			s.release()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error(ctx, "Error while accepting a connection", "error", err)
			time.Sleep(acceptErrorPause)
			continue
		}

		if !s.track(conn) {
			_ = conn.Close()
			s.release()
			return
		}

		s.wg.Add(1)
		go s.serve(ctx, conn)
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.release()
	defer s.untrack(conn)

	id, err := common.MakeRandHexString(4)
	if err != nil {
		id = "unknown"
	}
	remote := conn.RemoteAddr().String()

	s.logger.Info(ctx, "New socket connection", "remote", remote, "conn_id", id)
	sess := s.handler.Serve(ctx, conn, "remote", remote, "conn_id", id)
	s.logger.Debug(ctx, "Connection finished", "conn_id", id, "state", sess.State().String())
}

func (s *Server) release() {
	if s.limit != nil {
		s.limit.Release(1)
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopping = true
	for conn := range s.conns {
		_ = conn.Close()
	}
}
