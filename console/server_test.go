// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/quarterdeck-systems/quarterdeck/lib/clock"
	"github.com/quarterdeck-systems/quarterdeck/menu"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testMenu() *menu.Menu {
	return &menu.Menu{
		Label: "root",
		Items: []*menu.Item{
			{
				Command: "ping",
				Help:    "Check that the console is alive.",
				Handler: func(ctx context.Context, out io.Writer, m *menu.Menu, item *menu.Item, args []string) error {
					fmt.Fprintln(out, "pong")
					return nil
				},
			},
		},
	}
}

// startServer runs a server in the background and returns it along
// with its shutdown trigger and completion channel.
func startServer(t *testing.T, cfg *Config) (*Server, context.CancelFunc, <-chan error) {
	return startServerClocked(t, cfg, clock.Real())
}

// startServerClocked is startServer with an injected clock, for tests
// that drive the idle timeout deterministically.
func startServerClocked(t *testing.T, cfg *Config, clk clock.Clock) (*Server, context.CancelFunc, <-chan error) {
	t.Helper()

	server, err := NewServer(cfg, testMenu(), quietLogger())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	server.clock = clk

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx)
	}()
	t.Cleanup(cancel)
	return server, cancel, done
}

func waitAddr(t *testing.T, get func() net.Addr) net.Addr {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if addr := get(); addr != nil {
			return addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("listener address was not bound")
	return nil
}

func waitServe(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// readUntil accumulates output from r until substring appears, then
// returns everything read so far.
func readUntil(t *testing.T, r io.Reader, substring string) string {
	t.Helper()

	result := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		chunk := make([]byte, 256)
		for {
			n, err := r.Read(chunk)
			buf.Write(chunk[:n])
			if strings.Contains(buf.String(), substring) || err != nil {
				result <- buf.String()
				return
			}
		}
	}()

	select {
	case got := <-result:
		if !strings.Contains(got, substring) {
			t.Fatalf("session output %q does not contain %q", got, substring)
		}
		return got
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q in session output", substring)
		return ""
	}
}

func TestServerTCPSession(t *testing.T) {
	t.Parallel()
	archiveDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Listen.TCP = "127.0.0.1:0"
	cfg.Transcript.Dir = archiveDir

	server, cancel, done := startServer(t, cfg)
	addr := waitAddr(t, server.TCPAddr)

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dialing console: %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, "> ")
	io.WriteString(conn, "ping\r")
	readUntil(t, conn, "pong")

	conn.Close()
	cancel()
	waitServe(t, done)

	// The session's transcript was archived on disconnect.
	archives, err := filepath.Glob(filepath.Join(archiveDir, "*.log.zst"))
	if err != nil || len(archives) != 1 {
		t.Fatalf("expected one archived transcript, found %v (%v)", archives, err)
	}
	transcript, err := ReadArchive(archives[0])
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if !strings.Contains(string(transcript), "pong") {
		t.Errorf("archived transcript %q does not contain the session output", transcript)
	}
}

func TestServerSessionCap(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Listen.TCP = "127.0.0.1:0"
	cfg.Session.MaxSessions = 1

	server, cancel, done := startServer(t, cfg)
	addr := waitAddr(t, server.TCPAddr)

	first, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dialing console: %v", err)
	}
	defer first.Close()
	// Seeing the prompt proves the slot is held.
	readUntil(t, first, "> ")

	second, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dialing console: %v", err)
	}
	defer second.Close()
	readUntil(t, second, "Too many active sessions")

	cancel()
	waitServe(t, done)
}

func TestServerIdleTimeout(t *testing.T) {
	t.Parallel()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	cfg := DefaultConfig()
	cfg.Listen.TCP = "127.0.0.1:0"
	cfg.Session.IdleTimeout = "10m"

	server, cancel, done := startServerClocked(t, cfg, fakeClock)
	addr := waitAddr(t, server.TCPAddr)

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dialing console: %v", err)
	}
	defer conn.Close()
	readUntil(t, conn, "> ")

	// The session arms its idle timer on start; advancing past the
	// deadline closes the connection without waiting out real time.
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(10 * time.Minute)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.ReadAll(conn); err != nil {
		t.Errorf("expected idle timeout to close the connection cleanly, got %v", err)
	}

	cancel()
	waitServe(t, done)
}

func TestServerSSHSession(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()
	hostKeyFile := filepath.Join(stateDir, "host_key")

	cfg := DefaultConfig()
	cfg.Listen.SSH.Address = "127.0.0.1:0"
	cfg.Listen.SSH.HostKeyFile = hostKeyFile
	cfg.Listen.SSH.Password = "drop-anchor"

	server, cancel, done := startServer(t, cfg)
	addr := waitAddr(t, server.SSHAddr)

	clientConfig := &ssh.ClientConfig{
		User:            "operator",
		Auth:            []ssh.AuthMethod{ssh.Password("drop-anchor")},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	}
	client, err := ssh.Dial("tcp", addr.String(), clientConfig)
	if err != nil {
		t.Fatalf("ssh dial: %v", err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		t.Fatalf("ssh session: %v", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		t.Fatalf("stdin pipe: %v", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	if err := session.RequestPty("xterm", 40, 80, ssh.TerminalModes{}); err != nil {
		t.Fatalf("pty request: %v", err)
	}
	if err := session.Shell(); err != nil {
		t.Fatalf("shell request: %v", err)
	}

	readUntil(t, stdout, "> ")
	io.WriteString(stdin, "ping\r")
	readUntil(t, stdout, "pong")

	// The host key was generated on first use.
	if _, err := os.Stat(hostKeyFile); err != nil {
		t.Errorf("host key file was not created: %v", err)
	}

	client.Close()
	cancel()
	waitServe(t, done)
}

func TestServerSSHRejectsBadPassword(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Listen.SSH.Address = "127.0.0.1:0"
	cfg.Listen.SSH.HostKeyFile = filepath.Join(stateDir, "host_key")
	cfg.Listen.SSH.Password = "drop-anchor"

	server, cancel, done := startServer(t, cfg)
	addr := waitAddr(t, server.SSHAddr)

	clientConfig := &ssh.ClientConfig{
		User:            "operator",
		Auth:            []ssh.AuthMethod{ssh.Password("wrong")},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	}
	if client, err := ssh.Dial("tcp", addr.String(), clientConfig); err == nil {
		client.Close()
		t.Fatal("expected authentication failure, got a connection")
	}

	cancel()
	waitServe(t, done)
}

func TestHostKeyPersistence(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "keys", "host_key")

	first, err := loadOrCreateHostKey(path, quietLogger())
	if err != nil {
		t.Fatalf("generating host key: %v", err)
	}
	second, err := loadOrCreateHostKey(path, quietLogger())
	if err != nil {
		t.Fatalf("loading host key: %v", err)
	}

	if got, want := ssh.FingerprintSHA256(second.PublicKey()), ssh.FingerprintSHA256(first.PublicKey()); got != want {
		t.Errorf("reloaded host key fingerprint %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat host key: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("host key permissions: got %o, want 600", perm)
	}
}

func TestNewServerRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(nil, testMenu(), quietLogger()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewServer(DefaultConfig(), nil, quietLogger()); err == nil {
		t.Error("expected error for nil menu")
	}
}

func TestLoadAuthorizedKeys(t *testing.T) {
	t.Parallel()

	// Two keys with a comment line and blank lines between them.
	keyA := generateTestPublicKey(t)
	keyB := generateTestPublicKey(t)
	content := "# operators\n" + string(ssh.MarshalAuthorizedKey(keyA)) + "\n" + string(ssh.MarshalAuthorizedKey(keyB)) + "\n"

	path := filepath.Join(t.TempDir(), "authorized_keys")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing authorized_keys: %v", err)
	}

	keys, err := loadAuthorizedKeys(path)
	if err != nil {
		t.Fatalf("loadAuthorizedKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("loaded %d keys, want 2", len(keys))
	}
	if !keys[string(keyA.Marshal())] || !keys[string(keyB.Marshal())] {
		t.Error("loaded key set does not contain both keys")
	}
}

func generateTestPublicKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	signer, err := loadOrCreateHostKey(filepath.Join(t.TempDir(), "key"), quietLogger())
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return signer.PublicKey()
}
