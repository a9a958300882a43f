// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/quarterdeck-systems/quarterdeck/lib/clock"
	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// sessionRefusedMessage is written to clients turned away because the
// server is at its session cap.
const sessionRefusedMessage = "Too many active sessions, try again later.\r\n"

// runSession pumps one connection through a menu Runner until the peer
// disconnects, the idle timeout fires, or the context is cancelled.
// The transport is closed before returning. kind names the listener
// ("tcp" or "ssh") for logging.
func (s *Server) runSession(ctx context.Context, transport io.ReadWriteCloser, sessionID, remote, kind string) {
	logger := s.logger.With("session", sessionID, "remote", remote, "transport", kind)
	defer transport.Close()

	if !s.acquireSlot() {
		io.WriteString(transport, sessionRefusedMessage)
		logger.Info("session refused", "reason", "session cap reached")
		return
	}
	defer s.releaseSlot()

	started := s.clock.Now()
	logger.Info("session started")

	// Output fans out to the connection (buffered, flushed once the
	// input burst drains) and the transcript ring.
	transcript := NewTranscript(s.config.Transcript.Capacity)
	writer := bufio.NewWriterSize(transport, 4096)
	sink := io.MultiWriter(writer, transcript)

	lineBuffer := make([]byte, s.config.Session.LineBuffer)
	runner, err := menu.NewRunner(ctx, s.root, lineBuffer, sink, menu.Options{
		Prompt: s.config.Session.Prompt,
		Logger: logger,
	})
	if err != nil {
		logger.Error("session start failed", "error", err)
		return
	}
	if err := writer.Flush(); err != nil {
		logger.Debug("session write failed", "error", err)
		return
	}

	// Reads block with no deadline; the idle timer and the context
	// unblock them by closing the transport.
	var idleFired atomic.Bool
	idleTimeout, _ := s.config.Session.idleTimeout()
	var idleTimer *clock.Timer
	if idleTimeout > 0 {
		idleTimer = s.clock.AfterFunc(idleTimeout, func() {
			idleFired.Store(true)
			transport.Close()
		})
		defer idleTimer.Stop()
	}
	stopCancelWatch := context.AfterFunc(ctx, func() { transport.Close() })
	defer stopCancelWatch()

	reader := bufio.NewReaderSize(transport, 256)
	var inputBytes uint64
	for {
		b, readErr := reader.ReadByte()
		if readErr != nil {
			switch {
			case idleFired.Load():
				logger.Info("session idle timeout", "timeout", idleTimeout)
			case ctx.Err() != nil:
				logger.Info("session cancelled")
			case errors.Is(readErr, io.EOF):
				logger.Debug("peer disconnected")
			default:
				logger.Debug("session read failed", "error", readErr)
			}
			break
		}
		if idleTimer != nil {
			idleTimer.Reset(idleTimeout)
		}
		inputBytes++

		if err := runner.InputByte(ctx, b); err != nil {
			logger.Debug("session write failed", "error", err)
			break
		}
		// Flush only once the input burst drains, so pasted lines and
		// echo repaints batch into few writes.
		if reader.Buffered() == 0 {
			if err := writer.Flush(); err != nil {
				logger.Debug("session write failed", "error", err)
				break
			}
		}
	}

	s.archiveSession(logger, sessionID, started, transcript)
	logger.Info("session ended",
		"duration", s.clock.Now().Sub(started).Round(time.Millisecond),
		"input_bytes", inputBytes,
		"output_bytes", transcript.TotalWritten(),
	)
}

// archiveSession spools the transcript ring to the archive directory,
// if one is configured. Archive failures are logged, not fatal: the
// session itself already ended.
func (s *Server) archiveSession(logger *slog.Logger, sessionID string, started time.Time, transcript *Transcript) {
	if s.config.Transcript.Dir == "" {
		return
	}
	path, err := ArchiveTranscript(s.config.Transcript.Dir, sessionID, started, transcript.Snapshot(), s.config.Transcript.compression())
	if err != nil {
		logger.Error("transcript archive failed", "error", err)
		return
	}
	logger.Info("transcript archived",
		"path", path,
		"bytes", len(transcript.Snapshot()),
		"truncated", transcript.Truncated(),
	)
}

// acquireSlot claims a session slot. It reports false when the server
// is at its configured cap.
func (s *Server) acquireSlot() bool {
	maxSessions := s.config.Session.MaxSessions
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxSessions > 0 && s.activeCount >= maxSessions {
		return false
	}
	s.activeCount++
	return true
}

func (s *Server) releaseSlot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCount--
}

// nextSessionID returns a process-unique session identifier.
func (s *Server) nextSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionSeq++
	return fmt.Sprintf("s%04d", s.sessionSeq)
}
