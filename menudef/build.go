// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menudef

import (
	"fmt"
	"strings"

	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// Build validates the definition against the registry and constructs
// the menu tree. On validation failure the error lists every issue,
// one per line, so an author fixes the whole file in one pass.
func Build(def *Definition, registry *Registry) (*menu.Menu, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	if issues := Validate(def, registry); len(issues) > 0 {
		return nil, fmt.Errorf("invalid menu definition:\n  %s", strings.Join(issues, "\n  "))
	}
	return buildMenu(def, registry), nil
}

// buildMenu converts one validated definition level. Lookups cannot
// fail here: Validate already resolved every name.
func buildMenu(def *Definition, registry *Registry) *menu.Menu {
	m := &menu.Menu{Label: def.Label}
	if def.OnEnter != "" {
		m.Entry, _ = registry.MenuFunc(def.OnEnter)
	}
	if def.OnExit != "" {
		m.Exit, _ = registry.MenuFunc(def.OnExit)
	}
	for _, itemDef := range def.Items {
		m.Items = append(m.Items, buildItem(itemDef, registry))
	}
	return m
}

func buildItem(def ItemDef, registry *Registry) *menu.Item {
	item := &menu.Item{
		Command: def.Command,
		Help:    def.Help,
	}
	if def.Menu != nil {
		item.Submenu = buildMenu(def.Menu, registry)
		return item
	}

	item.Handler, _ = registry.Handler(def.Handler)
	for _, paramDef := range def.Parameters {
		item.Parameters = append(item.Parameters, menu.Parameter{
			Kind:       parameterKinds[paramDef.Kind],
			Name:       paramDef.Name,
			ValueLabel: paramDef.Label,
			Help:       paramDef.Help,
		})
	}
	return item
}
