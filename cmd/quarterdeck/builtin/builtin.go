// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package builtin provides the menu tree and handler registry shipped
// with the quarterdeck binary.
//
// [Tree] is the demonstration menu served by "quarterdeck demo": the
// foo/bar/sub tree whose handlers narrate what they received, useful
// for exploring the engine's argument handling interactively.
//
// [Registry] is the handler registry that "quarterdeck serve" binds
// menu definition files against, and that "quarterdeck check"
// validates handler names with. It contains the demonstration handlers
// plus a small set of session utilities (clock, uptime, menu
// information) so a definition file can assemble a useful console
// without any custom binary.
package builtin

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/quarterdeck-systems/quarterdeck/menu"
	"github.com/quarterdeck-systems/quarterdeck/menudef"
)

// processStart anchors the session.uptime handler.
var processStart = time.Now()

// Tree returns the demonstration menu. Every call builds a fresh tree,
// so concurrent sessions never share mutable state.
func Tree() *menu.Menu {
	sub := &menu.Menu{
		Label: "sub",
		Items: []*menu.Item{
			{Command: "baz", Help: "thingamobob a baz", Handler: announceItem},
			{Command: "quux", Help: "maximum quux", Handler: announceItem},
		},
		Entry: announceEnter,
		Exit:  announceExit,
	}
	return &menu.Menu{
		Label: "root",
		Items: []*menu.Item{
			{
				Command: "foo",
				Help: "Makes a foo appear.\n" +
					"\n" +
					"This is some extensive help text.\n" +
					"\n" +
					"It contains multiple paragraphs and should be preceded by the parameter list.\n",
				Handler: fooHandler,
				Parameters: []menu.Parameter{
					menu.Mandatory("a", "This is the help text for 'a'"),
					menu.Optional("b", ""),
					menu.Named("verbose", ""),
					menu.NamedValue("level", "INT", "Set the level of the dangle"),
				},
			},
			{Command: "bar", Help: "fandoggles a bar", Handler: announceItem},
			{Command: "sub", Help: "enter sub-menu", Submenu: sub},
		},
		Entry: announceEnter,
		Exit:  announceExit,
	}
}

// Registry returns the built-in handler registry. Every call builds a
// fresh registry; callers may add their own handlers on top.
func Registry() *menudef.Registry {
	registry := menudef.NewRegistry()

	registry.Handle("demo.foo", fooHandler)
	registry.Handle("demo.bar", announceItem)
	registry.Handle("demo.baz", announceItem)
	registry.Handle("demo.quux", announceItem)

	registry.Handle("session.info", infoHandler)
	registry.Handle("session.time", timeHandler)
	registry.Handle("session.uptime", uptimeHandler)

	registry.HandleMenu("announce.enter", announceEnter)
	registry.HandleMenu("announce.exit", announceExit)

	return registry
}

// fooHandler narrates its invocation: the raw token slice, then each
// declared parameter resolved through the argument finder.
func fooHandler(ctx context.Context, out io.Writer, m *menu.Menu, item *menu.Item, args []string) error {
	fmt.Fprintf(out, "In select_%s. Args = %v\n", item.Command, args)
	for _, p := range item.Parameters {
		value, found, err := menu.FindArgument(item, args, p.Name)
		if err != nil {
			return err
		}
		if found {
			fmt.Fprintf(out, "%s = %q\n", p.Name, value)
		} else {
			fmt.Fprintf(out, "%s = (absent)\n", p.Name)
		}
	}
	return nil
}

// announceItem reports which command ran and with what tokens.
func announceItem(ctx context.Context, out io.Writer, m *menu.Menu, item *menu.Item, args []string) error {
	fmt.Fprintf(out, "In select_%s. Args = %v\n", item.Command, args)
	return nil
}

// infoHandler describes the menu the session is positioned in.
func infoHandler(ctx context.Context, out io.Writer, m *menu.Menu, item *menu.Item, args []string) error {
	fmt.Fprintf(out, "menu %q with %d items\n", m.Label, len(m.Items))
	for _, it := range m.Items {
		fmt.Fprintf(out, "  %s\n", it.Command)
	}
	return nil
}

// timeHandler prints the current time. A definition file binding it
// can declare a named parameter "utc" (print in UTC) and a named-value
// parameter "format" (Go time layout). Items that declare neither get
// the default rendering: the finder error for an undeclared name is
// deliberately read as "absent".
func timeHandler(ctx context.Context, out io.Writer, m *menu.Menu, item *menu.Item, args []string) error {
	now := time.Now()
	if _, found, _ := menu.FindArgument(item, args, "utc"); found {
		now = now.UTC()
	}
	layout := time.RFC3339
	if value, found, _ := menu.FindArgument(item, args, "format"); found && value != "" {
		layout = value
	}
	fmt.Fprintf(out, "%s\n", now.Format(layout))
	return nil
}

// uptimeHandler prints how long the process has been running.
func uptimeHandler(ctx context.Context, out io.Writer, m *menu.Menu, item *menu.Item, args []string) error {
	fmt.Fprintf(out, "up %s\n", time.Since(processStart).Round(time.Second))
	return nil
}

// announceEnter and announceExit are the entry/exit callbacks of the
// demonstration tree. They print the transition so a user can watch
// the navigator move.
func announceEnter(ctx context.Context, out io.Writer, m *menu.Menu) error {
	fmt.Fprintf(out, "In enter_%s\n", m.Label)
	return nil
}

func announceExit(ctx context.Context, out io.Writer, m *menu.Menu) error {
	fmt.Fprintf(out, "In exit_%s\n", m.Label)
	return nil
}
