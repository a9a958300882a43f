// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete quarterdeck CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	checkcmd "github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/check"
	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/cli"
	democmd "github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/demo"
	servecmd "github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/serve"
	"github.com/quarterdeck-systems/quarterdeck/lib/version"
)

// Root builds and returns the complete quarterdeck CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "quarterdeck",
		Description: `Quarterdeck: interactive command menus for constrained consoles.

Serve byte-at-a-time menu sessions over TCP and SSH from a YAML menu
definition, or run one locally on the controlling terminal.`,
		Subcommands: []*cli.Command{
			democmd.Command(),
			servecmd.Command(),
			checkcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("quarterdeck %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Try the built-in demo menu on this terminal",
				Command:     "quarterdeck demo",
			},
			{
				Description: "Same menu in the full-screen TUI",
				Command:     "quarterdeck demo --tui",
			},
			{
				Description: "Validate a menu definition file",
				Command:     "quarterdeck check menu.yaml",
			},
			{
				Description: "Serve menus over TCP and SSH",
				Command:     "quarterdeck serve --config /etc/quarterdeck/server.yaml",
			},
		},
	}
}
