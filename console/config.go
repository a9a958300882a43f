// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration for a console server. It is loaded from
// a single YAML file; there is no automatic discovery and environment
// variables do not override file values. The only expansion performed
// is ${VAR} and ${VAR:-default} in paths and secrets, so files can stay
// portable across machines.
type Config struct {
	// Menu configures where the menu tree comes from.
	Menu MenuConfig `yaml:"menu"`

	// Listen configures the network listeners. At least one of the
	// TCP and SSH listeners must be enabled.
	Listen ListenConfig `yaml:"listen"`

	// Session configures per-session behavior.
	Session SessionConfig `yaml:"session"`

	// Transcript configures session output capture and archival.
	Transcript TranscriptConfig `yaml:"transcript"`
}

// MenuConfig configures the menu definition source.
type MenuConfig struct {
	// File is the path of the YAML menu definition.
	File string `yaml:"file"`
}

// ListenConfig configures the server's listeners.
type ListenConfig struct {
	// TCP is the address of the plain TCP listener, for example
	// "127.0.0.1:2323". Empty disables the TCP listener.
	TCP string `yaml:"tcp"`

	// SSH configures the SSH listener.
	SSH SSHConfig `yaml:"ssh"`
}

// SSHConfig configures the SSH listener.
type SSHConfig struct {
	// Address is the listen address, for example ":2222".
	// Empty disables the SSH listener.
	Address string `yaml:"address"`

	// HostKeyFile is the path of the PEM-encoded host key. If the
	// file does not exist an ed25519 key is generated and saved there.
	// Default: host_key under the transcript directory's parent.
	HostKeyFile string `yaml:"host_key_file"`

	// AuthorizedKeysFile is a file of public keys granted access, in
	// the usual authorized_keys format. Empty disables key auth.
	AuthorizedKeysFile string `yaml:"authorized_keys_file"`

	// Password grants access to any user presenting this password.
	// Empty disables password auth. With neither key nor password
	// auth configured the listener accepts all clients, which is only
	// sensible on trusted networks.
	Password string `yaml:"password"`
}

// SessionConfig configures per-session behavior.
type SessionConfig struct {
	// Prompt is written before each line of input.
	// Default: "> "
	Prompt string `yaml:"prompt"`

	// LineBuffer is the size in bytes of each session's line buffer.
	// Input lines longer than this overflow.
	// Default: 256
	LineBuffer int `yaml:"line_buffer"`

	// IdleTimeout closes sessions that produce no input for this
	// long, as a Go duration string. "0" disables the timeout.
	// Default: 10m
	IdleTimeout string `yaml:"idle_timeout"`

	// MaxSessions caps concurrent sessions across all listeners.
	// 0 means unlimited.
	// Default: 16
	MaxSessions int `yaml:"max_sessions"`
}

// TranscriptConfig configures session output capture.
type TranscriptConfig struct {
	// Capacity is the number of bytes of recent output retained per
	// session.
	// Default: 65536
	Capacity int `yaml:"capacity"`

	// Dir is where transcripts are archived when sessions end.
	// Empty disables archival; transcripts are then kept only in
	// memory for the life of the session.
	Dir string `yaml:"dir"`

	// Compression selects the archive encoding: none, lz4, or zstd.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// DefaultConfig returns the default configuration. The defaults make
// every field usable before the config file is applied; the menu file
// and listen addresses still have to come from the file.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			Prompt:      "> ",
			LineBuffer:  256,
			IdleTimeout: "10m",
			MaxSessions: 16,
		},
		Transcript: TranscriptConfig{
			Capacity:    64 * 1024,
			Compression: string(CompressionZstd),
		},
	}
}

// LoadConfig loads configuration from path, overlaying the file on the
// defaults and validating the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// fields that commonly hold machine-specific paths or secrets.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Menu.File = expandVars(c.Menu.File, vars)
	c.Listen.SSH.HostKeyFile = expandVars(c.Listen.SSH.HostKeyFile, vars)
	c.Listen.SSH.AuthorizedKeysFile = expandVars(c.Listen.SSH.AuthorizedKeysFile, vars)
	c.Listen.SSH.Password = expandVars(c.Listen.SSH.Password, vars)
	c.Transcript.Dir = expandVars(c.Transcript.Dir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Menu.File == "" {
		errs = append(errs, fmt.Errorf("menu.file is required"))
	}

	if c.Listen.TCP == "" && c.Listen.SSH.Address == "" {
		errs = append(errs, fmt.Errorf("at least one of listen.tcp and listen.ssh.address is required"))
	}
	if c.Listen.SSH.Address != "" && c.Listen.SSH.HostKeyFile == "" {
		errs = append(errs, fmt.Errorf("listen.ssh.host_key_file is required when the SSH listener is enabled"))
	}

	if c.Session.LineBuffer <= 0 {
		errs = append(errs, fmt.Errorf("session.line_buffer must be positive"))
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("session.max_sessions must not be negative"))
	}
	if _, err := c.Session.idleTimeout(); err != nil {
		errs = append(errs, fmt.Errorf("session.idle_timeout: %w", err))
	}

	if c.Transcript.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("transcript.capacity must be positive"))
	}
	if _, err := ParseCompression(c.Transcript.Compression); err != nil {
		errs = append(errs, fmt.Errorf("transcript.compression: %w", err))
	}
	if c.Transcript.Dir != "" && !filepath.IsAbs(c.Transcript.Dir) {
		// Relative archive dirs silently depend on the daemon's cwd.
		errs = append(errs, fmt.Errorf("transcript.dir must be an absolute path"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// idleTimeout parses the configured idle timeout. An empty or "0"
// value disables the timeout.
func (c SessionConfig) idleTimeout() (time.Duration, error) {
	if c.IdleTimeout == "" || c.IdleTimeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}

// compression returns the parsed transcript compression. Validate must
// have accepted the configuration first.
func (c TranscriptConfig) compression() Compression {
	compression, err := ParseCompression(c.Compression)
	if err != nil {
		return CompressionNone
	}
	return compression
}
