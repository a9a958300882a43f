// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/cli"
	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/commands"
)

func main() {
	if err := run(); err != nil {
		// Categorized errors carry their own exit code and an optional
		// hint pointing at the likely fix.
		var cmdErr *cli.CmdError
		if errors.As(err, &cmdErr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", cmdErr)
			if cmdErr.Hint != "" {
				fmt.Fprintf(os.Stderr, "hint: %s\n", cmdErr.Hint)
			}
			os.Exit(cmdErr.ExitCode())
		}

		// Commands that print their own output (like check) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := cli.NewLogger(slog.LevelInfo)
	return commands.Root().Execute(context.Background(), os.Args[1:], logger)
}
