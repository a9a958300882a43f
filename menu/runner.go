// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultPrompt is written at the start of every input line unless
// Options.Prompt overrides it.
const DefaultPrompt = "> "

// Options configures a Runner. The zero value is a usable default:
// "> " prompt, echo on, slog.Default() for diagnostics.
type Options struct {
	// Prompt is the text rendered at the start of each input line.
	// Empty means DefaultPrompt.
	Prompt string

	// NoEcho disables echoing of typed bytes. Use it when the peer
	// renders its own input line (line-editing front ends, TUIs) or
	// when the transport echoes locally.
	NoEcho bool

	// Logger receives structured debug events (dispatches, lookup
	// failures). If nil, slog.Default() is used. Nothing is ever
	// logged at a level above Debug: user-visible reporting happens
	// on the output sink, not in the log.
	Logger *slog.Logger
}

// Runner owns one interactive session: it accumulates input bytes into
// the caller-supplied line buffer, hands completed lines to command
// resolution, and tracks the menu position. A Runner is single-owner;
// feed it from one goroutine only.
type Runner struct {
	nav    *Navigator
	buffer []byte
	used   int
	out    io.Writer
	prompt string
	echo   bool
	logger *slog.Logger
}

// NewRunner validates the menu tree, runs the root menu's entry
// callback, and renders the first prompt. The buffer bounds the line
// length: bytes beyond its capacity are dropped with an overflow
// warning. The buffer must not be touched by the caller while the
// Runner is alive.
func NewRunner(ctx context.Context, root *Menu, buffer []byte, output io.Writer, options Options) (*Runner, error) {
	if root == nil {
		return nil, errors.New("menu: root menu is nil")
	}
	if output == nil {
		return nil, errors.New("menu: output sink is nil")
	}
	if err := validateTree(root); err != nil {
		return nil, fmt.Errorf("menu: invalid menu tree: %w", err)
	}

	prompt := options.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		nav:    NewNavigator(root),
		buffer: buffer,
		out:    &crlfWriter{sink: output},
		prompt: prompt,
		echo:   !options.NoEcho,
		logger: logger,
	}

	if root.Entry != nil {
		if err := r.runCallback(ctx, root.Entry, root); err != nil {
			return nil, err
		}
	}
	if err := r.writePrompt(); err != nil {
		return nil, err
	}
	return r, nil
}

// Depth reports how many submenu levels the session is below the root.
func (r *Runner) Depth() int {
	return r.nav.Depth()
}

// CurrentMenu returns the menu the session is positioned in.
func (r *Runner) CurrentMenu() *Menu {
	return r.nav.Current()
}

// InputByte feeds one byte into the session.
//
//   - 0x0D submits the accumulated line for processing.
//   - 0x0A is ignored; it never submits, so CRLF and bare-CR input
//     behave identically.
//   - 0x08 and 0x7F erase the last accumulated byte, if any.
//   - Anything else is appended to the line, or dropped with an
//     overflow warning once the buffer is full.
//
// The returned error is non-nil only when writing to the output sink
// fails; everything a user can cause is reported as session output.
func (r *Runner) InputByte(ctx context.Context, b byte) error {
	switch b {
	case '\n':
		return nil

	case '\r':
		return r.submit(ctx)

	case 0x08, 0x7F:
		if r.used == 0 {
			return nil
		}
		r.used--
		if r.echo {
			return r.writeString("\b \b")
		}
		return nil

	default:
		if r.used == len(r.buffer) {
			return r.writeLine("Buffer overflow!")
		}
		r.buffer[r.used] = b
		r.used++
		if r.echo {
			return r.redrawLine()
		}
		return nil
	}
}

// InputText feeds every byte of text in order. Multi-byte runes pass
// through unharmed because the accumulator works on raw bytes.
func (r *Runner) InputText(ctx context.Context, text string) error {
	for i := 0; i < len(text); i++ {
		if err := r.InputByte(ctx, text[i]); err != nil {
			return err
		}
	}
	return nil
}

// Serve pumps bytes from source into the session until the source
// reports EOF, the context is canceled, or the output sink fails.
// A Read blocked on a quiet transport is not interrupted by context
// cancellation; close the source to unblock it.
func (r *Runner) Serve(ctx context.Context, source io.Reader) error {
	chunk := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := source.Read(chunk)
		for i := 0; i < n; i++ {
			if writeErr := r.InputByte(ctx, chunk[i]); writeErr != nil {
				return writeErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// submit runs the accumulated line through the processor. The buffer
// is reset afterward no matter how processing went, and the prompt is
// re-rendered so the session is ready for the next line.
func (r *Runner) submit(ctx context.Context) error {
	if r.echo {
		if err := r.redrawLine(); err != nil {
			return err
		}
	}
	if err := r.writeString("\n"); err != nil {
		return err
	}
	processErr := r.process(ctx, r.buffer[:r.used])
	r.used = 0
	if processErr != nil {
		return processErr
	}
	return r.writePrompt()
}

// redrawLine repaints the input line in place: carriage return, the
// prompt, then the accumulated bytes. The repaint is skipped while the
// buffer ends in a partial UTF-8 sequence so a terminal never receives
// a torn rune; the next completing byte repaints the whole line.
func (r *Runner) redrawLine() error {
	if !utf8.Valid(r.buffer[:r.used]) {
		return nil
	}
	if err := r.writeString("\r"); err != nil {
		return err
	}
	if err := r.writeString(r.prompt); err != nil {
		return err
	}
	_, err := r.out.Write(r.buffer[:r.used])
	return err
}

func (r *Runner) writePrompt() error {
	return r.writeString(r.prompt)
}

func (r *Runner) writeString(s string) error {
	_, err := io.WriteString(r.out, s)
	return err
}

// writeLine emits one message line. The CRLF translation happens in
// the output writer.
func (r *Runner) writeLine(s string) error {
	if err := r.writeString(s); err != nil {
		return err
	}
	return r.writeString("\n")
}

func (r *Runner) writef(format string, args ...any) error {
	_, err := fmt.Fprintf(r.out, format, args...)
	return err
}

// crlfWriter rewrites \n to \r\n on the way to the sink. Engine code
// and handlers write ordinary \n line endings; the wire carries CRLF
// so raw terminals render correctly. Bytes other than \n pass through
// untouched.
type crlfWriter struct {
	sink io.Writer
}

func (w *crlfWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			n, err := w.sink.Write(p)
			return written + n, err
		}
		if i > 0 {
			n, err := w.sink.Write(p[:i])
			written += n
			if err != nil {
				return written, err
			}
		}
		if _, err := w.sink.Write([]byte{'\r', '\n'}); err != nil {
			return written, err
		}
		written++
		p = p[i+1:]
	}
	return written, nil
}
