// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/quarterdeck-systems/quarterdeck/lib/clock"
	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// Server serves menu sessions to network clients. Each accepted
// connection gets its own menu Runner, line buffer, and transcript
// ring; the menu tree itself is shared and must therefore be treated
// as read-only once the server starts.
type Server struct {
	config *Config
	root   *menu.Menu
	logger *slog.Logger

	// clock drives the idle timers and session timestamps. Tests
	// replace it with a fake to exercise timeouts deterministically.
	clock clock.Clock

	// activeSessions tracks in-flight sessions for graceful shutdown.
	// ListenAndServe waits for all sessions to end before returning.
	activeSessions sync.WaitGroup

	mu          sync.Mutex
	activeCount int
	sessionSeq  int
	tcpAddr     net.Addr
	sshAddr     net.Addr
}

// NewServer creates a server for the given menu tree. The config must
// already be validated; LoadConfig does that for file-sourced configs.
func NewServer(config *Config, root *menu.Menu, logger *slog.Logger) (*Server, error) {
	if config == nil {
		return nil, errors.New("console: config is nil")
	}
	if root == nil {
		return nil, errors.New("console: root menu is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: config,
		root:   root,
		logger: logger,
		clock:  clock.Real(),
	}, nil
}

// TCPAddr returns the bound address of the TCP listener, or nil before
// ListenAndServe has bound it (or when the listener is disabled).
// Useful when the configured address has port 0.
func (s *Server) TCPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tcpAddr
}

// SSHAddr returns the bound address of the SSH listener, or nil before
// ListenAndServe has bound it (or when the listener is disabled).
func (s *Server) SSHAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sshAddr
}

// ListenAndServe binds the configured listeners and serves sessions
// until ctx is cancelled, then stops accepting, waits for active
// sessions to end, and returns nil.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var listeners []net.Listener
	closeAll := func() {
		for _, l := range listeners {
			l.Close()
		}
	}

	var tcpListener, sshListener net.Listener
	if s.config.Listen.TCP != "" {
		l, err := net.Listen("tcp", s.config.Listen.TCP)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", s.config.Listen.TCP, err)
		}
		tcpListener = l
		listeners = append(listeners, l)
	}
	if s.config.Listen.SSH.Address != "" {
		l, err := net.Listen("tcp", s.config.Listen.SSH.Address)
		if err != nil {
			closeAll()
			return fmt.Errorf("listening on %s: %w", s.config.Listen.SSH.Address, err)
		}
		sshListener = l
		listeners = append(listeners, l)
	}
	if len(listeners) == 0 {
		return errors.New("console: no listeners configured")
	}
	defer closeAll()

	var sshConfig *ssh.ServerConfig
	if sshListener != nil {
		cfg, err := s.buildSSHConfig()
		if err != nil {
			return err
		}
		sshConfig = cfg
	}

	s.mu.Lock()
	if tcpListener != nil {
		s.tcpAddr = tcpListener.Addr()
	}
	if sshListener != nil {
		s.sshAddr = sshListener.Addr()
	}
	s.mu.Unlock()

	// Unblock Accept when the context is cancelled.
	go func() {
		<-ctx.Done()
		closeAll()
	}()

	var acceptLoops sync.WaitGroup
	if tcpListener != nil {
		s.logger.Info("console listening", "transport", "tcp", "address", tcpListener.Addr())
		acceptLoops.Add(1)
		go func() {
			defer acceptLoops.Done()
			s.acceptLoop(ctx, tcpListener, func(conn net.Conn) {
				s.runSession(ctx, conn, s.nextSessionID(), conn.RemoteAddr().String(), "tcp")
			})
		}()
	}
	if sshListener != nil {
		s.logger.Info("console listening", "transport", "ssh", "address", sshListener.Addr())
		acceptLoops.Add(1)
		go func() {
			defer acceptLoops.Done()
			s.acceptLoop(ctx, sshListener, func(conn net.Conn) {
				s.serveSSHConn(ctx, conn, sshConfig)
			})
		}()
	}

	acceptLoops.Wait()
	s.activeSessions.Wait()
	return nil
}

// acceptLoop accepts connections until the listener closes, running
// handle for each in its own goroutine.
func (s *Server) acceptLoop(ctx context.Context, listener net.Listener, handle func(net.Conn)) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.activeSessions.Add(1)
		go func() {
			defer s.activeSessions.Done()
			handle(conn)
		}()
	}
}
