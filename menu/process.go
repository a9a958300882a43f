// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// process runs one completed line through command resolution. Every
// user-level failure (bad encoding, unknown command, bad arguments) is
// a message on the output sink; the returned error is non-nil only
// when the sink itself fails.
func (r *Runner) process(ctx context.Context, line []byte) error {
	if !utf8.Valid(line) {
		return r.writeLine("Input not valid UTF-8")
	}

	tokens := strings.Fields(string(line))
	if len(tokens) == 0 {
		return r.writeLine("Input was empty")
	}
	command, args := tokens[0], tokens[1:]

	switch {
	case command == "help":
		return r.runHelp(args)

	case command == "exit" && r.nav.Depth() > 0:
		leaving := r.nav.Current()
		if leaving.Exit != nil {
			if err := r.runCallback(ctx, leaving.Exit, leaving); err != nil {
				return err
			}
		}
		r.nav.Pop()
		return nil
	}

	// "exit" at the root falls through here and resolves like any
	// other word: unless the root menu defines an item called exit,
	// it ends in the not-found message.
	current := r.nav.Current()
	for index, item := range current.Items {
		if item.Command != command {
			continue
		}
		switch item.kind() {
		case submenuItem:
			return r.enterSubmenu(ctx, index, item)
		case callbackItem:
			return r.invokeItem(ctx, current, item, args)
		}
	}

	r.logger.Debug("command not found", "command", command, "menu", current.Label)
	return r.writef("Command %q not found. Try 'help'.\n", command)
}

// runHelp renders the short listing, or the long help for the named
// item. Extra tokens after the item name are ignored.
func (r *Runner) runHelp(args []string) error {
	current := r.nav.Current()
	if len(args) == 0 {
		return writeShortHelp(r.out, current, r.nav.Depth())
	}
	name := args[0]
	for _, item := range current.Items {
		if item.Command == name {
			return writeLongHelp(r.out, item)
		}
	}
	return r.writef("I can't help with %q\n", name)
}

// enterSubmenu descends into the submenu at the given item index and
// runs its entry callback. A session already at maximum depth stays
// where it is and gets a message instead.
func (r *Runner) enterSubmenu(ctx context.Context, index int, item *Item) error {
	if err := r.nav.Push(index); err != nil {
		if errors.Is(err, ErrTooDeep) {
			return r.writeLine("Can't enter menu - structure too deep")
		}
		return err
	}
	entered := item.Submenu
	r.logger.Debug("menu entered", "menu", entered.Label, "depth", r.nav.Depth())
	if entered.Entry != nil {
		return r.runCallback(ctx, entered.Entry, entered)
	}
	return nil
}

// invokeItem validates the argument tokens against the item's declared
// parameters and runs the handler. The handler receives the raw token
// slice; individual values are looked up lazily via FindArgument.
func (r *Runner) invokeItem(ctx context.Context, current *Menu, item *Item, args []string) error {
	if message := checkArguments(item, args); message != "" {
		r.logger.Debug("argument validation failed",
			"command", item.Command, "reason", message)
		return r.writeLine(message)
	}
	r.logger.Debug("command dispatched", "command", item.Command, "menu", current.Label)
	if err := item.Handler(ctx, r.out, current, item, args); err != nil {
		return r.writef("error: %v\n", err)
	}
	return nil
}

// runCallback invokes a menu entry or exit callback, reporting its
// error to the user the same way handler errors are reported.
func (r *Runner) runCallback(ctx context.Context, fn MenuFunc, m *Menu) error {
	if err := fn(ctx, r.out, m); err != nil {
		return r.writef("error: %v\n", err)
	}
	return nil
}
