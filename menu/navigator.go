// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"fmt"
)

// MaxDepth is how many submenu levels a session can descend below the
// root. The Navigator records the path in a fixed array of this size,
// so descending never allocates.
const MaxDepth = 4

// ErrTooDeep is returned by Navigator.Push when all depth slots are in
// use. The processor reports it to the user; depth is unchanged.
var ErrTooDeep = errors.New("menu: structure too deep")

// Navigator tracks the path from the root menu to the currently active
// menu as item indices, one per descended level. It is single-owner:
// the processor mutates it synchronously while handling a line, and
// nothing else touches it.
type Navigator struct {
	root    *Menu
	indices [MaxDepth]int
	depth   int
}

// NewNavigator returns a navigator positioned at the root menu.
func NewNavigator(root *Menu) *Navigator {
	return &Navigator{root: root}
}

// Depth reports how many levels below the root the navigator is.
// Zero means the root menu is current.
func (n *Navigator) Depth() int {
	return n.depth
}

// Current returns the active menu, walking the recorded indices down
// from the root.
func (n *Navigator) Current() *Menu {
	return n.MenuAt(n.depth)
}

// MenuAt returns the menu at the given level of the recorded path:
// level 0 is the root, level Depth() is the current menu. Panics if
// level is negative or beyond the recorded depth.
func (n *Navigator) MenuAt(level int) *Menu {
	if level < 0 || level > n.depth {
		panic(fmt.Sprintf("menu: level %d outside recorded path (depth %d)", level, n.depth))
	}
	m := n.root
	for i := 0; i < level; i++ {
		m = m.Items[n.indices[i]].Submenu
	}
	return m
}

// Push descends into the submenu at the given item index of the
// current menu. Returns ErrTooDeep when every depth slot is already in
// use, leaving the path unchanged. Panics if the index is out of range
// or the item is not a submenu item; the processor only pushes indices
// it resolved itself, so hitting that panic means a caller bypassed
// command resolution.
func (n *Navigator) Push(index int) error {
	if n.depth == MaxDepth {
		return ErrTooDeep
	}
	current := n.Current()
	if index < 0 || index >= len(current.Items) {
		panic(fmt.Sprintf("menu: push index %d out of range for menu %q", index, current.Label))
	}
	if current.Items[index].Submenu == nil {
		panic(fmt.Sprintf("menu: item %q in menu %q is not a submenu",
			current.Items[index].Command, current.Label))
	}
	n.indices[n.depth] = index
	n.depth++
	return nil
}

// Pop ascends one level. No-op at the root.
func (n *Navigator) Pop() {
	if n.depth > 0 {
		n.depth--
	}
}
