// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package demo implements the "demo" subcommand: an interactive
// session with the built-in demonstration menu.
package demo

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/builtin"
	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/cli"
	"github.com/quarterdeck-systems/quarterdeck/console"
	"github.com/quarterdeck-systems/quarterdeck/menutui"
)

// Command returns the "demo" subcommand.
func Command() *cli.Command {
	var tui bool
	var buffer int
	var prompt string

	return &cli.Command{
		Name:    "demo",
		Summary: "Run the demonstration menu on this terminal",
		Description: `Run an interactive session with the built-in demonstration menu.

The menu exercises every argument shape the engine understands: "foo"
takes a mandatory positional, an optional positional, a --verbose flag,
and a --level=INT value; "sub" descends into a nested menu. Type "help"
at the prompt for the item listing and "help foo" for the full
parameter breakdown.

By default the session runs directly on the invoking terminal in raw
mode. With --tui it runs inside a full-screen scrollable pane instead.
Piped input works too: bytes are consumed until EOF, which makes the
command usable for scripted smoke tests.`,
		Usage: "quarterdeck demo [flags]",
		Examples: []cli.Example{
			{
				Description: "Explore the demonstration menu",
				Command:     "quarterdeck demo",
			},
			{
				Description: "Same menu in the full-screen client",
				Command:     "quarterdeck demo --tui",
			},
			{
				Description: "Scripted session over a pipe",
				Command:     `printf 'foo x --level=9\rexit\r' | quarterdeck demo`,
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("demo", pflag.ContinueOnError)
			flagSet.BoolVar(&tui, "tui", false, "run in the full-screen client")
			flagSet.IntVar(&buffer, "buffer", 0, "line buffer size in bytes (default 256)")
			flagSet.StringVar(&prompt, "prompt", "", `prompt text (default "> ")`)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			if tui {
				return menutui.Run(ctx, builtin.Tree(), menutui.Options{
					Prompt:     prompt,
					LineBuffer: buffer,
					Logger:     logger,
				})
			}
			return console.RunLocal(ctx, builtin.Tree(), console.LocalOptions{
				Prompt:     prompt,
				LineBuffer: buffer,
				Logger:     logger,
			})
		},
	}
}
