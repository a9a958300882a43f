// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package console runs menu sessions over real transports: the local
// terminal, plain TCP, and SSH. The menu engine itself is
// transport-agnostic; this package supplies the byte plumbing around
// it and the operational trimmings a long-lived console service needs.
//
// The pieces:
//
//   - local.go: an interactive session on the invoking terminal, with
//     raw mode handling
//   - server.go: the listener/session lifecycle for network consoles
//   - session.go: one connection pumped through a menu Runner, with
//     idle timeout and transcript capture
//   - ssh.go: the SSH flavor of the listener (host keys, client auth)
//   - transcript.go: a fixed-capacity ring of recent session output
//   - archive.go: compressed spooling of transcripts at session end
//   - config.go: the YAML server configuration
//
// A session's output sink fans out to the connection and its
// transcript ring, so the tail of every session survives disconnects
// and can be spooled for later inspection.
package console
