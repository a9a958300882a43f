// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package menutui is a bubbletea front end for menu sessions.
//
// The menu engine speaks a raw-terminal byte protocol: it repaints the
// input line with carriage returns, erases with backspace-space-
// backspace, and ends lines with CRLF. Dumping that stream into a text
// widget renders garbage, so this package interprets it the way a
// terminal would (screen.go) and shows the resulting screen lines in a
// scrollable viewport (model.go). Keystrokes are translated back into
// the bytes a terminal would send and fed to the engine.
package menutui
