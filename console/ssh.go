// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
)

// handshakeTimeout bounds the SSH handshake so a stalled client cannot
// hold a connection slot open indefinitely.
const handshakeTimeout = 30 * time.Second

// buildSSHConfig assembles the SSH server configuration from
// Listen.SSH: host key, then client auth. Key and password auth can be
// enabled together; with neither configured the listener accepts all
// clients.
func (s *Server) buildSSHConfig() (*ssh.ServerConfig, error) {
	cfg := s.config.Listen.SSH

	authorizedKeys, err := loadAuthorizedKeys(cfg.AuthorizedKeysFile)
	if err != nil {
		return nil, err
	}

	serverConfig := &ssh.ServerConfig{}
	if len(authorizedKeys) > 0 {
		serverConfig.PublicKeyCallback = func(meta ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if authorizedKeys[string(key.Marshal())] {
				return &ssh.Permissions{
					Extensions: map[string]string{
						"pubkey-fp": ssh.FingerprintSHA256(key),
					},
				}, nil
			}
			return nil, fmt.Errorf("unknown public key for user %q", meta.User())
		}
	}
	if cfg.Password != "" {
		expected := []byte(cfg.Password)
		serverConfig.PasswordCallback = func(meta ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if subtle.ConstantTimeCompare(password, expected) == 1 {
				return &ssh.Permissions{}, nil
			}
			return nil, errors.New("invalid password")
		}
	}
	if len(authorizedKeys) == 0 && cfg.Password == "" {
		serverConfig.NoClientAuth = true
		s.logger.Warn("ssh listener has no client auth configured; all clients will be accepted")
	}

	hostKey, err := loadOrCreateHostKey(cfg.HostKeyFile, s.logger)
	if err != nil {
		return nil, err
	}
	serverConfig.AddHostKey(hostKey)
	return serverConfig, nil
}

// loadAuthorizedKeys reads an authorized_keys file into a set keyed by
// the wire encoding of each public key. An empty path yields nil.
func loadAuthorizedKeys(path string) (map[string]bool, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading authorized keys: %w", err)
	}

	keys := make(map[string]bool)
	data = bytes.TrimSpace(data)
	for len(data) > 0 {
		key, _, _, rest, err := ssh.ParseAuthorizedKey(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		keys[string(key.Marshal())] = true
		data = bytes.TrimSpace(rest)
	}
	return keys, nil
}

// loadOrCreateHostKey loads the PEM host key at path. On the first run
// the file will not exist yet; an ed25519 key is generated and saved
// there with owner-only permissions.
func loadOrCreateHostKey(path string, logger *slog.Logger) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		signer, parseErr := ssh.ParsePrivateKey(data)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing host key %s: %w", path, parseErr)
		}
		return signer, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading host key: %w", err)
	}

	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(privateKey, "")
	if err != nil {
		return nil, fmt.Errorf("encoding host key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating host key directory: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return nil, fmt.Errorf("writing host key: %w", err)
	}

	signer, err := ssh.NewSignerFromKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("using generated host key: %w", err)
	}
	logger.Info("generated ssh host key",
		"path", path,
		"fingerprint", ssh.FingerprintSHA256(signer.PublicKey()),
	)
	return signer, nil
}

// serveSSHConn runs the SSH handshake on an accepted connection and
// serves menu sessions on its session channels. Channels are served
// one at a time; a console client opens one.
func (s *Server) serveSSHConn(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	remote := conn.RemoteAddr().String()

	conn.SetDeadline(time.Now().Add(handshakeTimeout))
	serverConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		s.logger.Debug("ssh handshake failed", "remote", remote, "error", err)
		conn.Close()
		return
	}
	conn.SetDeadline(time.Time{})
	defer serverConn.Close()

	// Closing the server connection tears down all channels, which
	// unblocks both the channel range below and any session reads.
	stopCancelWatch := context.AfterFunc(ctx, func() { serverConn.Close() })
	defer stopCancelWatch()

	s.logger.Info("ssh client authenticated", "remote", remote, "user", serverConn.User())
	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			s.logger.Debug("ssh channel accept failed", "remote", remote, "error", err)
			continue
		}

		// Interactive clients send pty-req and shell before typing,
		// and window-change as the terminal resizes. The menu renderer
		// is width-agnostic, so resize events need no action.
		go func(in <-chan *ssh.Request) {
			for req := range in {
				switch req.Type {
				case "shell", "pty-req", "env":
					req.Reply(true, nil)
				case "window-change":
					// No reply expected.
				default:
					req.Reply(false, nil)
				}
			}
		}(requests)

		s.runSession(ctx, channel, s.nextSessionID(), remote, "ssh")
	}
}
