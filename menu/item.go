// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Handler is the callback invoked when a callback item's command is
// entered with valid arguments. The args slice holds the raw tokens
// following the command word, unmodified; use FindArgument to look up
// individual parameter values. Output written to out reaches the
// session transport. A returned error is reported to the user as
// "error: ..." and the session continues.
type Handler func(ctx context.Context, out io.Writer, m *Menu, item *Item, args []string) error

// MenuFunc is the callback invoked when a menu is entered or left.
// The root menu's Entry runs once when the Runner is created; the root
// Exit never runs.
type MenuFunc func(ctx context.Context, out io.Writer, m *Menu) error

// Item is a single entry in a menu: either a command bound to a
// Handler, or the gateway into a submenu. Set exactly one of Handler
// and Submenu; NewRunner rejects trees that set both or neither.
// Items are immutable once the Runner is constructed.
type Item struct {
	// Command is the word the user types to select this item.
	Command string

	// Help describes the item. The first line appears in the short
	// help listing; the full text appears in long help. May be empty.
	Help string

	// Handler makes this a callback item.
	Handler Handler

	// Parameters declares the arguments a callback item accepts.
	// Meaningful only with Handler. Optional parameters must follow
	// all mandatory ones.
	Parameters []Parameter

	// Submenu makes this a menu item.
	Submenu *Menu
}

// itemKind discriminates the two real item shapes. Help rendering uses
// a separate display-only row type for its synthetic entries, so no
// third kind exists here.
type itemKind int

const (
	callbackItem itemKind = iota
	submenuItem
)

// kind reports which shape the item has. Valid only on items accepted
// by validateTree.
func (it *Item) kind() itemKind {
	if it.Submenu != nil {
		return submenuItem
	}
	return callbackItem
}

// Menu is a named collection of items with optional entry and exit
// callbacks. Item order is declaration order and is meaningful: help
// listings preserve it, and when two items share a command the first
// one wins.
type Menu struct {
	// Label names the menu in help output and diagnostics.
	Label string

	// Items are the commands available while this menu is current.
	Items []*Item

	// Entry runs when the menu is entered (for the root, once at
	// Runner construction).
	Entry MenuFunc

	// Exit runs when the menu is left via the exit command. Never
	// runs for the root menu.
	Exit MenuFunc
}

// validateTree checks that every item in the tree sets exactly one of
// Handler and Submenu, has a non-empty command, and keeps optional
// parameters after mandatory ones. Returns all problems found, joined.
func validateTree(root *Menu) error {
	var problems []error
	walkMenu(root, "", func(path string, it *Item) {
		where := path + it.Command
		if it.Command == "" {
			problems = append(problems, fmt.Errorf("%sitem with empty command", path))
			where = path + "<empty>"
		}
		hasHandler := it.Handler != nil
		hasSubmenu := it.Submenu != nil
		switch {
		case hasHandler && hasSubmenu:
			problems = append(problems, fmt.Errorf("%s: both handler and submenu set", where))
		case !hasHandler && !hasSubmenu:
			problems = append(problems, fmt.Errorf("%s: neither handler nor submenu set", where))
		}
		if hasSubmenu && len(it.Parameters) > 0 {
			problems = append(problems, fmt.Errorf("%s: parameters declared on a submenu item", where))
		}
		seenOptional := false
		for _, p := range it.Parameters {
			switch p.Kind {
			case ParameterOptional:
				seenOptional = true
			case ParameterMandatory:
				if seenOptional {
					problems = append(problems, fmt.Errorf(
						"%s: mandatory parameter %q declared after an optional one", where, p.Name))
				}
			}
			if p.Name == "" {
				problems = append(problems, fmt.Errorf("%s: parameter with empty name", where))
			}
		}
	})
	return errors.Join(problems...)
}

// walkMenu visits every item in the tree in depth-first declaration
// order. The path passed to visit is the slash-joined command chain of
// the enclosing menus, ending in a slash ("" for the root). Each menu
// is visited once, so a shared submenu is validated once and a cycle
// cannot hang the walk.
func walkMenu(root *Menu, path string, visit func(path string, it *Item)) {
	visited := make(map[*Menu]bool)
	var walk func(m *Menu, path string)
	walk = func(m *Menu, path string) {
		if visited[m] {
			return
		}
		visited[m] = true
		for _, it := range m.Items {
			visit(path, it)
			if it.Submenu != nil {
				walk(it.Submenu, path+it.Command+"/")
			}
		}
	}
	walk(root, path)
}
