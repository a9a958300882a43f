// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menutui

import (
	"strings"
	"unicode/utf8"
)

// DefaultScrollback is how many screen lines a Screen retains when no
// limit is given.
const DefaultScrollback = 1000

// tabWidth is the distance between tab stops.
const tabWidth = 8

// Screen interprets a session's output byte stream the way a dumb
// terminal would: carriage return moves the cursor to column zero so
// subsequent bytes overwrite the line, line feed starts a new line,
// and backspace moves the cursor left. That is exactly the protocol
// the menu engine's echo repaints use, so feeding engine output into a
// Screen yields the lines a user at a serial terminal would see.
//
// Screen implements io.Writer and never fails. It is not safe for
// concurrent use; the TUI model owns it and writes only from the
// update loop.
type Screen struct {
	lines      [][]rune
	column     int
	partial    []byte
	scrollback int
}

// NewScreen creates a screen retaining at most scrollback lines.
// Zero or negative means DefaultScrollback.
func NewScreen(scrollback int) *Screen {
	if scrollback <= 0 {
		scrollback = DefaultScrollback
	}
	return &Screen{
		lines:      [][]rune{nil},
		scrollback: scrollback,
	}
}

// Write interprets p and always reports full consumption. A trailing
// partial UTF-8 sequence is held back until the bytes completing it
// arrive.
func (s *Screen) Write(p []byte) (int, error) {
	data := p
	if len(s.partial) > 0 {
		data = append(s.partial, p...)
		s.partial = nil
	}

	for len(data) > 0 {
		b := data[0]
		switch {
		case b == '\r':
			s.column = 0
			data = data[1:]
		case b == '\n':
			s.newLine()
			data = data[1:]
		case b == '\b':
			if s.column > 0 {
				s.column--
			}
			data = data[1:]
		case b == '\t':
			// Move to the next tab stop without erasing anything the
			// cursor skips over.
			target := s.column - s.column%tabWidth + tabWidth
			for s.column < target {
				if s.column < len(s.currentLine()) {
					s.column++
				} else {
					s.put(' ')
				}
			}
			data = data[1:]
		case b < 0x20 || b == 0x7F:
			// Other control bytes have no visual effect here.
			data = data[1:]
		case b < utf8.RuneSelf:
			s.put(rune(b))
			data = data[1:]
		default:
			if !utf8.FullRune(data) {
				s.partial = append([]byte(nil), data...)
				return len(p), nil
			}
			r, size := utf8.DecodeRune(data)
			s.put(r)
			data = data[size:]
		}
	}
	return len(p), nil
}

// put writes one rune at the cursor, overwriting what is there, and
// advances the cursor.
func (s *Screen) put(r rune) {
	line := s.lines[len(s.lines)-1]
	if s.column < len(line) {
		line[s.column] = r
	} else {
		for len(line) < s.column {
			line = append(line, ' ')
		}
		line = append(line, r)
		s.lines[len(s.lines)-1] = line
	}
	s.column++
}

func (s *Screen) currentLine() []rune {
	return s.lines[len(s.lines)-1]
}

func (s *Screen) newLine() {
	s.lines = append(s.lines, nil)
	s.column = 0
	if len(s.lines) > s.scrollback {
		// Drop the oldest lines; shift in place so the backing array
		// does not grow without bound.
		excess := len(s.lines) - s.scrollback
		copy(s.lines, s.lines[excess:])
		s.lines = s.lines[:s.scrollback]
	}
}

// Lines returns the screen contents, one string per line.
func (s *Screen) Lines() []string {
	out := make([]string, len(s.lines))
	for i, line := range s.lines {
		out[i] = string(line)
	}
	return out
}

// String returns the screen contents joined with newlines.
func (s *Screen) String() string {
	return strings.Join(s.Lines(), "\n")
}
