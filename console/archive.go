// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how archived transcripts are encoded on disk.
// Both compressed forms use the standard frame formats, so archives
// can be read back with the ordinary lz4 and zstd command-line tools.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// ParseCompression converts a configuration string into a Compression.
func ParseCompression(s string) (Compression, error) {
	switch Compression(strings.ToLower(s)) {
	case CompressionNone, Compression(""):
		return CompressionNone, nil
	case CompressionLZ4:
		return CompressionLZ4, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return CompressionNone, fmt.Errorf("unknown transcript compression %q (want none, lz4, or zstd)", s)
	}
}

// extension returns the filename suffix appended after ".log".
func (c Compression) extension() string {
	switch c {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// The zstd encoder and decoder are stateless between EncodeAll and
// DecodeAll calls and are shared across all sessions.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("console: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("console: zstd decoder initialization failed: " + err.Error())
	}
}

// ArchiveTranscript writes a transcript snapshot to dir under the name
// "<session>-<timestamp>.log" plus the compression extension, creating
// dir if needed. It returns the path of the written file. Empty data
// still produces a file, so archives record that a session happened.
func ArchiveTranscript(dir, session string, started time.Time, data []byte, compression Compression) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating transcript directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.log%s", session, started.UTC().Format("20060102T150405Z"), compression.extension())
	path := filepath.Join(dir, name)

	encoded, err := encodeTranscript(data, compression)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}

func encodeTranscript(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compression failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compression failed: %w", err)
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unknown transcript compression %q", compression)
	}
}

// ReadArchive reads back an archived transcript, choosing the decoder
// from the filename extension.
func ReadArchive(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".lz4"):
		decoded, err := io.ReadAll(lz4.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		return decoded, nil
	case strings.HasSuffix(path, ".zst"):
		decoded, err := zstdDecoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompression failed: %w", err)
		}
		return decoded, nil
	default:
		return raw, nil
	}
}
