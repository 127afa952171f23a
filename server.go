package main

import (
	"context"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/cihub/seelog"
	"github.com/pkg/errors"
)

const (
	defaultAddress     = "0.0.0.0:8080"
	defaultWakeTimeout = time.Second
)

func NewServer(config Config) Server {
	if config.Address == "" {
		config.Address = defaultAddress
	}

	if config.WakeTimeout <= 0 {
		config.WakeTimeout = defaultWakeTimeout
	}

	if config.Logger == nil {
		config.Logger = seelog.Disabled
	}
	return &server{config: config, log: config.Logger}
}

// Listen binds the configured address. A failure here is fatal for the process.
func (s *server) Listen() error {
	if s.listener != nil {
		return errors.New("server is already listening")
	}

	s.log.Infof("Starting HTTP server on %s...", s.config.Address)
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.config.Address)
	}

	s.listener = listener
	s.shutdown = newShutdownCoordinator(listener, s.config.WakeTimeout, s.log)
	return nil
}

// Start binds the configured address and serves until ctx is done or Stop is called.
func (s *server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs the accept loop, handling one connection at a time. It returns nil
// once shutdown has been requested and the listener is closed.
func (s *server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("serve called before listen")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.shutdown.Trigger()
		case <-done:
		}
	}()

	s.log.Infof("Waiting for incoming connections on %s", s.listener.Addr())
	err := s.acceptLoop()

	if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		s.log.Errorf("Closing listener: %v", cerr)
	}
	s.log.Infof("HTTP server shut down after %d connections", atomic.LoadInt64(&s.handled))
	return err
}

func (s *server) acceptLoop() error {
	for {
		// check if shutdown is triggered before accepting connections
		if s.shutdown.Requested() {
			return nil
		}

		s.log.Debug("Accepting incoming connections...")
		conn, err := s.listener.Accept()
		if err != nil {
			if s.shutdown.Requested() {
				return nil // shutdown in progress
			}
			if errors.Is(err, net.ErrClosed) {
				return errors.Wrap(err, "accept")
			}

			s.log.Errorf("Error accepting connection: %v", err)
			continue
		}

		// the wake connection lands here; it is not a client
		if s.shutdown.Requested() {
			s.log.Debugf("Dropping connection from %s accepted during shutdown", conn.RemoteAddr())
			conn.Close()
			return nil
		}

		s.log.Infof("Accepted connection from %s", conn.RemoteAddr())
		s.handleConnection(conn)
		s.log.Debug("Connection handled and closed.")
	}
}

func (s *server) Stop() {
	if s.shutdown == nil {
		return
	}
	s.shutdown.Trigger()
}

func (s *server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// handleConnection serves a single request and always closes conn. Errors and
// panics stop here so the accept loop keeps running.
func (s *server) handleConnection(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Client handling panic: %v", r)
		}
		if err := conn.Close(); err != nil {
			s.log.Debugf("Error closing connection: %v", err)
		}
		atomic.AddInt64(&s.handled, 1)
	}()

	if err := s.serveConn(conn); err != nil {
		s.log.Errorf("Client handling error: %v", err)
	}
}

func (s *server) serveConn(conn net.Conn) error {
	if s.config.ConnTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.config.ConnTimeout)); err != nil {
			return errors.Wrap(err, "set deadline")
		}
	}

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "read request")
		}
		// peer closed before sending anything
		return nil
	}

	req := parseRequest(buf[:n])
	s.log.Infof("Request: %s %s %s", req.Method, req.Path, req.Version)
	for _, h := range req.Headers {
		s.log.Debugf("Header: %s", h)
	}

	if _, err := conn.Write(buildResponse(req)); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}
