// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package menudef provides parsing, validation, and construction of
// menu trees from YAML definitions. A definition names handlers
// symbolically; a Registry maps those names to the Go functions the
// running binary provides. This keeps menu layout editable without
// recompiling: the server loads a definition file at startup and binds
// it against its built-in registry.
//
// The typical flow:
//
//  1. ReadFile or Parse: YAML bytes → Definition
//  2. Validate: structural checks (one of handler/menu, kind names,
//     parameter ordering, reachable nesting depth, resolvable handlers)
//  3. Build: Definition + Registry → *menu.Menu ready for a Runner
package menudef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is one menu level as authored in YAML. Nested menus use
// the same shape.
type Definition struct {
	// Label names the menu in help output and diagnostics.
	Label string `yaml:"label"`

	// OnEnter and OnExit are registry names of callbacks to run when
	// the menu is entered and left. Optional.
	OnEnter string `yaml:"on_enter"`
	OnExit  string `yaml:"on_exit"`

	// Items are the commands of this menu, in display order.
	Items []ItemDef `yaml:"items"`
}

// ItemDef is one command in a menu definition. Exactly one of Handler
// and Menu must be set.
type ItemDef struct {
	// Command is the word the user types.
	Command string `yaml:"command"`

	// Help is the description; the first line shows in the short
	// listing.
	Help string `yaml:"help"`

	// Handler is the registry name of the callback for this command.
	Handler string `yaml:"handler"`

	// Parameters declare the arguments a handler item accepts.
	Parameters []ParameterDef `yaml:"parameters"`

	// Menu makes this item a gateway into a nested menu.
	Menu *Definition `yaml:"menu"`
}

// ParameterDef is one declared parameter.
type ParameterDef struct {
	// Name identifies the parameter; for the named kinds it is the
	// flag name without dashes.
	Name string `yaml:"name"`

	// Kind is one of "mandatory", "optional", "named", "named-value".
	Kind string `yaml:"kind"`

	// Label is the value placeholder for named-value parameters, as
	// in --level=INT.
	Label string `yaml:"label"`

	// Help is the one-line description shown in long help.
	Help string `yaml:"help"`
}

// Parse unmarshals a YAML menu definition. Unknown fields are
// rejected so a typo like "paramters" fails loudly instead of being
// silently dropped.
func Parse(data []byte) (*Definition, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var def Definition
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing menu definition: empty document")
		}
		return nil, fmt.Errorf("parsing menu definition: %w", err)
	}
	return &def, nil
}

// ReadFile reads and parses a YAML menu definition from disk.
func ReadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
