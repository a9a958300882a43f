// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Session.Prompt != "> " {
		t.Errorf("default prompt: got %q, want %q", cfg.Session.Prompt, "> ")
	}
	if cfg.Session.LineBuffer != 256 {
		t.Errorf("default line buffer: got %d, want 256", cfg.Session.LineBuffer)
	}
	if cfg.Transcript.Capacity != 64*1024 {
		t.Errorf("default transcript capacity: got %d, want %d", cfg.Transcript.Capacity, 64*1024)
	}
	if cfg.Transcript.Compression != "zstd" {
		t.Errorf("default compression: got %q, want %q", cfg.Transcript.Compression, "zstd")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
menu:
  file: /etc/quarterdeck/menu.yaml

listen:
  tcp: 127.0.0.1:2323

session:
  prompt: "qd> "
  idle_timeout: 5m

transcript:
  capacity: 4096
  compression: lz4
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Menu.File != "/etc/quarterdeck/menu.yaml" {
		t.Errorf("menu file: got %q", cfg.Menu.File)
	}
	if cfg.Listen.TCP != "127.0.0.1:2323" {
		t.Errorf("tcp listen: got %q", cfg.Listen.TCP)
	}
	if cfg.Session.Prompt != "qd> " {
		t.Errorf("prompt: got %q", cfg.Session.Prompt)
	}
	if cfg.Session.IdleTimeout != "5m" {
		t.Errorf("idle timeout: got %q", cfg.Session.IdleTimeout)
	}
	if got, _ := cfg.Session.idleTimeout(); got.Minutes() != 5 {
		t.Errorf("parsed idle timeout: got %v, want 5m", got)
	}

	// Fields the file does not mention keep their defaults.
	if cfg.Session.LineBuffer != 256 {
		t.Errorf("line buffer default not preserved: got %d", cfg.Session.LineBuffer)
	}
	if cfg.Transcript.Capacity != 4096 {
		t.Errorf("transcript capacity: got %d, want 4096", cfg.Transcript.Capacity)
	}
	if cfg.Transcript.compression() != CompressionLZ4 {
		t.Errorf("compression: got %v, want lz4", cfg.Transcript.compression())
	}
}

func TestLoadConfigExpandsVariables(t *testing.T) {
	t.Setenv("QUARTERDECK_TEST_SECRET", "hunter2")

	path := writeConfigFile(t, `
menu:
  file: ${HOME:-/etc}/menu.yaml

listen:
  ssh:
    address: ":2222"
    host_key_file: /var/lib/quarterdeck/host_key
    password: ${QUARTERDECK_TEST_SECRET}
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Listen.SSH.Password != "hunter2" {
		t.Errorf("password not expanded: got %q", cfg.Listen.SSH.Password)
	}
	if strings.Contains(cfg.Menu.File, "${") {
		t.Errorf("menu file not expanded: got %q", cfg.Menu.File)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "no menu file",
			content: "listen:\n  tcp: 127.0.0.1:2323\n",
			want:    "menu.file is required",
		},
		{
			name:    "no listeners",
			content: "menu:\n  file: /m.yaml\n",
			want:    "at least one of listen.tcp and listen.ssh.address is required",
		},
		{
			name:    "ssh without host key",
			content: "menu:\n  file: /m.yaml\nlisten:\n  ssh:\n    address: \":2222\"\n",
			want:    "listen.ssh.host_key_file is required",
		},
		{
			name:    "bad idle timeout",
			content: "menu:\n  file: /m.yaml\nlisten:\n  tcp: :23\nsession:\n  idle_timeout: whenever\n",
			want:    "session.idle_timeout",
		},
		{
			name:    "bad compression",
			content: "menu:\n  file: /m.yaml\nlisten:\n  tcp: :23\ntranscript:\n  compression: gzip\n",
			want:    "transcript.compression",
		},
		{
			name:    "relative transcript dir",
			content: "menu:\n  file: /m.yaml\nlisten:\n  tcp: :23\ntranscript:\n  dir: spool\n",
			want:    "transcript.dir must be an absolute path",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeConfigFile(t, test.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not mention %q", err, test.want)
			}
		})
	}
}

func TestLoadConfigCollectsAllIssues(t *testing.T) {
	// One broken file, every problem reported at once.
	path := writeConfigFile(t, `
session:
  line_buffer: -1
  idle_timeout: sometime
transcript:
  capacity: 0
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{
		"menu.file is required",
		"at least one of",
		"session.line_buffer must be positive",
		"session.idle_timeout",
		"transcript.capacity must be positive",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %q:\n%v", want, err)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
