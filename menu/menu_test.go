// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"context"
	"io"
	"log/slog"
)

// nopHandler is a callback that does nothing, for tests that only care
// about tree shape or dispatch.
func nopHandler(ctx context.Context, out io.Writer, m *Menu, item *Item, args []string) error {
	return nil
}

// capture records handler invocations so tests can assert on dispatch
// count and the exact token slice the handler received.
type capture struct {
	calls int
	menu  *Menu
	item  *Item
	args  []string
}

func (c *capture) handler(ctx context.Context, out io.Writer, m *Menu, item *Item, args []string) error {
	c.calls++
	c.menu = m
	c.item = item
	c.args = append([]string(nil), args...)
	return nil
}

// quietLogger discards debug output so test logs stay readable.
func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// demoTree builds the canonical demonstration menu: foo with the four
// parameter kinds, bar with none, and a sub menu holding baz and quux.
// The returned captures record invocations of foo and bar.
func demoTree() (*Menu, *capture, *capture) {
	foo := &capture{}
	bar := &capture{}
	sub := &Menu{
		Label: "sub",
		Items: []*Item{
			{Command: "baz", Help: "thingamobob a baz", Handler: nopHandler},
			{Command: "quux", Help: "maximum quux", Handler: nopHandler},
		},
	}
	root := &Menu{
		Label: "root",
		Items: []*Item{
			{
				Command: "foo",
				Help:    "Makes a foo appear.\n\nThis is some extensive help text.",
				Handler: foo.handler,
				Parameters: []Parameter{
					Mandatory("a", "This is the help text for 'a'"),
					Optional("b", ""),
					Named("verbose", ""),
					NamedValue("level", "INT", "Set the level of the dangle"),
				},
			},
			{Command: "bar", Help: "fandoggles a bar", Handler: bar.handler},
			{Command: "sub", Help: "enter sub-menu", Submenu: sub},
		},
	}
	return root, foo, bar
}
