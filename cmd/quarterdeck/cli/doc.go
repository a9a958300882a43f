// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the quarterdeck
// binary.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/quarterdeck/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// Errors returned from Run fall into two shapes the main function
// understands: [CmdError] carries a category and an optional hint for
// the user, and [ExitError] requests a bare exit code with no extra
// output (for commands like check that have already printed their
// findings).
package cli
