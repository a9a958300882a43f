// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menudef

import (
	"fmt"

	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// parameterKinds maps the YAML kind names onto the engine's kinds.
var parameterKinds = map[string]menu.ParameterKind{
	"mandatory":   menu.ParameterMandatory,
	"optional":    menu.ParameterOptional,
	"named":       menu.ParameterNamed,
	"named-value": menu.ParameterNamedValue,
}

// Validate checks a definition for structural issues and, when a
// registry is given, for unresolvable handler names. Returns a list of
// human-readable issue descriptions; an empty list means the
// definition will Build.
//
// Structural checks include:
//   - Every menu needs a label and at least one item
//   - Each item needs a command and exactly one of handler or menu
//   - Parameters are only valid on handler items
//   - Parameter kinds must be known and names non-empty
//   - A label is only meaningful on named-value parameters
//   - Mandatory parameters must precede optional ones
//   - Menus nested deeper than the navigator can enter are unreachable
//   - With a registry: handler, on_enter, and on_exit names must resolve
//
// Duplicate commands within one menu are not flagged: the engine
// resolves them first-match, so a definition that shadows a command
// still behaves deterministically.
func Validate(def *Definition, registry *Registry) []string {
	return validateMenu(def, registry, "", 0)
}

func validateMenu(def *Definition, registry *Registry, prefix string, depth int) []string {
	var issues []string

	report := func(format string, args ...any) {
		issues = append(issues, prefix+fmt.Sprintf(format, args...))
	}

	if def.Label == "" {
		report("label is required")
	}
	if len(def.Items) == 0 {
		report("menu has no items (at least one is required)")
	}
	if depth > menu.MaxDepth {
		report("menu is nested %d levels deep; sessions can only descend %d, so it is unreachable",
			depth, menu.MaxDepth)
	}

	if registry != nil {
		if def.OnEnter != "" {
			if _, ok := registry.MenuFunc(def.OnEnter); !ok {
				report("on_enter %q is not a registered menu callback", def.OnEnter)
			}
		}
		if def.OnExit != "" {
			if _, ok := registry.MenuFunc(def.OnExit); !ok {
				report("on_exit %q is not a registered menu callback", def.OnExit)
			}
		}
	}

	for index, item := range def.Items {
		itemPrefix := fmt.Sprintf("%sitems[%d]", prefix, index)
		if item.Command != "" {
			itemPrefix = fmt.Sprintf("%s %q", itemPrefix, item.Command)
		}
		issues = append(issues, validateItem(item, registry, itemPrefix)...)

		if item.Menu != nil {
			nestedPrefix := fmt.Sprintf("%s.menu: ", itemPrefix)
			issues = append(issues, validateMenu(item.Menu, registry, nestedPrefix, depth+1)...)
		}
	}

	return issues
}

func validateItem(item ItemDef, registry *Registry, prefix string) []string {
	var issues []string

	report := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf("%s: ", prefix)+fmt.Sprintf(format, args...))
	}

	if item.Command == "" {
		report("command is required")
	}

	hasHandler := item.Handler != ""
	hasMenu := item.Menu != nil
	switch {
	case hasHandler && hasMenu:
		report("handler and menu are mutually exclusive (set exactly one)")
	case !hasHandler && !hasMenu:
		report("must set exactly one of handler or menu")
	}

	if hasMenu && len(item.Parameters) > 0 {
		report("parameters are only valid on handler items")
	}

	if hasHandler && registry != nil {
		if _, ok := registry.Handler(item.Handler); !ok {
			report("handler %q is not registered", item.Handler)
		}
	}

	seenOptional := false
	for pIndex, param := range item.Parameters {
		paramPrefix := fmt.Sprintf("%s: parameters[%d]", prefix, pIndex)
		if param.Name != "" {
			paramPrefix = fmt.Sprintf("%s %q", paramPrefix, param.Name)
		}
		reportParam := func(format string, args ...any) {
			issues = append(issues, paramPrefix+": "+fmt.Sprintf(format, args...))
		}

		if param.Name == "" {
			reportParam("name is required")
		}
		kind, known := parameterKinds[param.Kind]
		if !known {
			reportParam("unknown kind %q (want mandatory, optional, named, or named-value)", param.Kind)
			continue
		}
		if param.Label != "" && kind != menu.ParameterNamedValue {
			reportParam("label is only valid on named-value parameters")
		}
		switch kind {
		case menu.ParameterOptional:
			seenOptional = true
		case menu.ParameterMandatory:
			if seenOptional {
				reportParam("mandatory parameters must precede optional ones")
			}
		}
	}

	return issues
}
