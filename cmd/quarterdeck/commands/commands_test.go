// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"
	"testing"

	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/cli"
)

// TestCommandTreeShape walks the full command tree and validates that
// every node is dispatchable: a name, either a Run function or
// subcommands, and a summary on everything below the root.
func TestCommandTreeShape(t *testing.T) {
	root := Root()
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		where := strings.Join(path, " ")
		if command.Name == "" {
			t.Errorf("%s: command with empty name", where)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands set", where)
		}
		if command != root && command.Summary == "" {
			t.Errorf("%s: missing summary", where)
		}
	})
}

// TestCommandTreeUniqueNames validates that sibling commands never
// share a name, which would make dispatch order-dependent.
func TestCommandTreeUniqueNames(t *testing.T) {
	root := Root()
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		seen := make(map[string]bool)
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", strings.Join(path, " "), sub.Name)
			}
			seen[sub.Name] = true
		}
	})
}

func TestRootHasExpectedCommands(t *testing.T) {
	root := Root()
	want := []string{"demo", "serve", "check", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Subcommands {
			if sub.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root tree missing %q", name)
		}
	}
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
