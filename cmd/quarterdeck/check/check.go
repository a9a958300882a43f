// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package check implements the "check" subcommand: menu definition
// validation without starting a server.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/builtin"
	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/cli"
	"github.com/quarterdeck-systems/quarterdeck/menudef"
)

// Command returns the "check" subcommand.
func Command() *cli.Command {
	var ignoreHandlers bool
	var listHandlers bool

	return &cli.Command{
		Name:    "check",
		Summary: "Validate a menu definition file",
		Description: `Parse and validate a menu definition file, reporting every issue.

Validation covers structure (labels, commands, exactly one of handler
or menu per item, parameter kinds and ordering, reachable nesting
depth) and, unless --ignore-handlers is given, that every handler name
resolves against the built-in registry. Definitions written for a
binary with a different registry can be checked structurally with
--ignore-handlers.

Exit status is 0 for a clean definition and 1 when issues were found.`,
		Usage: "quarterdeck check FILE",
		Examples: []cli.Example{
			{
				Description: "Validate a menu definition",
				Command:     "quarterdeck check menu.yaml",
			},
			{
				Description: "Structural checks only, ignore handler names",
				Command:     "quarterdeck check --ignore-handlers menu.yaml",
			},
			{
				Description: "List the handler names the binary provides",
				Command:     "quarterdeck check --list-handlers",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.BoolVar(&ignoreHandlers, "ignore-handlers", false, "skip handler name resolution")
			flagSet.BoolVar(&listHandlers, "list-handlers", false, "print the built-in handler names and exit")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if listHandlers {
				for _, name := range builtin.Registry().HandlerNames() {
					fmt.Println(name)
				}
				return nil
			}

			if len(args) != 1 {
				return cli.Validation("definition file argument required\n\nUsage: quarterdeck check FILE")
			}
			path := args[0]

			def, err := menudef.ReadFile(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return cli.NotFound("%s does not exist", path)
				}
				return cli.Validation("%v", err)
			}

			registry := builtin.Registry()
			if ignoreHandlers {
				registry = nil
			}
			issues := menudef.Validate(def, registry)
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Println(issue)
				}
				fmt.Printf("%s: %d issue(s)\n", path, len(issues))
				return &cli.ExitError{Code: 1}
			}

			fmt.Printf("%s: ok (menu %q, %d items)\n", path, def.Label, countItems(def))
			return nil
		},
	}
}

// countItems counts the items of the definition, nested menus included.
func countItems(def *menudef.Definition) int {
	total := len(def.Items)
	for _, item := range def.Items {
		if item.Menu != nil {
			total += countItems(item.Menu)
		}
	}
	return total
}
