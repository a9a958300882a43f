// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menudef

import (
	"sort"

	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// Registry maps the symbolic handler names used in menu definitions to
// the functions a binary actually provides. Register everything before
// Build; the registry is not safe for concurrent mutation.
type Registry struct {
	handlers  map[string]menu.Handler
	menuFuncs map[string]menu.MenuFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:  make(map[string]menu.Handler),
		menuFuncs: make(map[string]menu.MenuFunc),
	}
}

// Handle registers a command handler under the given name. Dotted
// namespaces keep related handlers together, e.g. "demo.foo".
// Registering a name twice replaces the earlier handler.
func (r *Registry) Handle(name string, handler menu.Handler) {
	r.handlers[name] = handler
}

// HandleMenu registers an entry or exit callback under the given name,
// for use in on_enter and on_exit fields.
func (r *Registry) HandleMenu(name string, fn menu.MenuFunc) {
	r.menuFuncs[name] = fn
}

// Handler looks up a registered command handler.
func (r *Registry) Handler(name string) (menu.Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// MenuFunc looks up a registered entry/exit callback.
func (r *Registry) MenuFunc(name string) (menu.MenuFunc, bool) {
	fn, ok := r.menuFuncs[name]
	return fn, ok
}

// HandlerNames returns the registered command handler names, sorted.
// The check command prints them so definition authors can see what a
// binary provides.
func (r *Registry) HandlerNames() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
