// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// helpRow is the display-only shape the help renderer works with. Real
// items are converted into rows, and the synthetic help and exit
// entries are rows that never existed in the tree, so one rendering
// path serves both.
type helpRow struct {
	invocation string
	help       string
}

// itemRow flattens an item into its short-help row: the command word,
// the parameter summaries, and the first line of its help text.
func itemRow(it *Item) helpRow {
	parts := make([]string, 0, 1+len(it.Parameters))
	parts = append(parts, it.Command)
	for _, p := range it.Parameters {
		parts = append(parts, p.summary())
	}
	return helpRow{
		invocation: strings.Join(parts, " "),
		help:       firstLine(it.Help),
	}
}

// writeShortHelp renders one row per item of the menu, in declaration
// order, followed by the synthetic exit row (only when the session is
// inside a submenu) and the synthetic help row.
func writeShortHelp(w io.Writer, m *Menu, depth int) error {
	rows := make([]helpRow, 0, len(m.Items)+2)
	for _, it := range m.Items {
		rows = append(rows, itemRow(it))
	}
	if depth > 0 {
		rows = append(rows, helpRow{invocation: "exit", help: "Leave this menu."})
	}
	rows = append(rows, helpRow{
		invocation: "help [item]",
		help:       "Show this help, or detailed help for an item.",
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		if row.help == "" {
			fmt.Fprintf(tw, "  %s\n", row.invocation)
			continue
		}
		fmt.Fprintf(tw, "  %s\t- %s\n", row.invocation, row.help)
	}
	return tw.Flush()
}

// writeLongHelp renders the detailed help for one item: the usage
// line, the per-parameter table for callback items, and the full help
// text.
func writeLongHelp(w io.Writer, it *Item) error {
	if _, err := fmt.Fprintf(w, "Usage: %s\n", itemRow(it).invocation); err != nil {
		return err
	}

	if len(it.Parameters) > 0 {
		if _, err := io.WriteString(w, "\nParameters:\n"); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, p := range it.Parameters {
			if p.Help == "" {
				fmt.Fprintf(tw, "  %s\n", p.summary())
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\n", p.summary(), firstLine(p.Help))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if it.Help != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", strings.TrimRight(it.Help, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// firstLine returns text up to the first line break.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimRight(text[:i], "\r")
	}
	return text
}
