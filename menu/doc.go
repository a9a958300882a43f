// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package menu implements an interactive, hierarchical command menu
// driven one byte at a time over an arbitrary transport.
//
// The engine is built for constrained and remote environments: the
// caller supplies the line buffer, which is never grown or reallocated,
// and all output is plain bytes with CRLF line endings so the other end
// can be a raw terminal, a TCP socket, or an SSH channel without any
// cooking layer in between.
//
// The data flow through the package:
//
//	bytes → Runner (line accumulation, echo, backspace, overflow)
//	      → processor (tokenize, help/exit, item lookup)
//	      → argument validation (counts, unknown flags)
//	      → Handler (with FindArgument for lazy value lookup)
//	      → Navigator (bounded-depth descent into submenus)
//
// Each file covers one stage:
//
//   - parameter.go: the four parameter shapes a callback item declares
//   - item.go: menus, items, and the handler callback signatures
//   - navigator.go: the bounded-depth path from the root menu
//   - arguments.go: token validation and the lazy argument finder
//   - help.go: short and long help rendering
//   - process.go: one completed line through the command processor
//   - runner.go: the byte-level state machine and session entry point
//
// A Runner is single-owner: one goroutine feeds it bytes and handlers
// run synchronously inside that call. User mistakes (unknown commands,
// bad arguments, overflow) are messages on the output sink and never
// returned as Go errors; the errors the API does return indicate a
// broken output transport or a malformed menu tree.
package menu
