// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// Control bytes that end a local session. In raw mode Ctrl-C arrives
// as a byte, not a signal, so the session loop handles it directly.
const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// LocalOptions configures RunLocal.
type LocalOptions struct {
	// Prompt overrides the default "> " prompt.
	Prompt string

	// LineBuffer is the line buffer size in bytes. Zero means 256.
	LineBuffer int

	// Logger receives session diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// RunLocal runs an interactive session for root on the invoking
// terminal. Stdin is switched to raw mode so bytes arrive unbuffered
// and unechoed; the menu engine does its own echo. Ctrl-C and Ctrl-D
// end the session cleanly.
//
// When stdin is not a terminal (piped input, scripts), the bytes are
// pumped straight through without any terminal mode changes and the
// session ends at EOF.
func RunLocal(ctx context.Context, root *menu.Menu, options LocalOptions) error {
	lineBuffer := options.LineBuffer
	if lineBuffer <= 0 {
		lineBuffer = 256
	}
	buffer := make([]byte, lineBuffer)

	menuOptions := menu.Options{
		Prompt: options.Prompt,
		Logger: options.Logger,
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		runner, err := menu.NewRunner(ctx, root, buffer, os.Stdout, menuOptions)
		if err != nil {
			return err
		}
		return runner.Serve(ctx, os.Stdin)
	}

	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer term.Restore(stdinFd, oldState)
	// Leave the cursor on a fresh line before the mode is restored.
	defer io.WriteString(os.Stdout, "\r\n")

	runner, err := menu.NewRunner(ctx, root, buffer, os.Stdout, menuOptions)
	if err != nil {
		return err
	}

	chunk := make([]byte, 256)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, readErr := os.Stdin.Read(chunk)
		for i := 0; i < n; i++ {
			b := chunk[i]
			if b == ctrlC || b == ctrlD {
				return nil
			}
			if err := runner.InputByte(ctx, b); err != nil {
				return err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}
