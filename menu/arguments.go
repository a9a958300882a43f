// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Finder contract violations. These indicate a bug in handler code,
// not bad user input: handlers receive the item they were registered
// on and should only look up names that item declares.
var (
	// ErrNotCallback is returned by FindArgument when the item is a
	// submenu item and therefore has no parameters.
	ErrNotCallback = errors.New("menu: item is not a callback item")

	// ErrUnknownParameter is returned by FindArgument when the named
	// parameter is not declared on the item.
	ErrUnknownParameter = errors.New("menu: parameter not declared on item")
)

// checkArguments validates the raw token list following a command word
// against the item's declared parameters. It returns the user-facing
// message describing the first problem, or "" when the tokens are
// acceptable and the handler may run.
//
// Flag tokens are checked first: any --token whose name (the part
// before an optional =) is not a declared named or named-value
// parameter fails validation on the spot. Then the positional count
// must fall within [mandatory, mandatory+optional].
func checkArguments(item *Item, args []string) string {
	var mandatory, optional, positional int
	for _, p := range item.Parameters {
		switch p.Kind {
		case ParameterMandatory:
			mandatory++
		case ParameterOptional:
			optional++
		}
	}

	for _, token := range args {
		if !strings.HasPrefix(token, "--") {
			positional++
			continue
		}
		name := strings.TrimPrefix(token, "--")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
		declared := false
		for _, p := range item.Parameters {
			if (p.Kind == ParameterNamed || p.Kind == ParameterNamedValue) && p.Name == name {
				declared = true
				break
			}
		}
		if !declared {
			return fmt.Sprintf("Did not understand %q", token)
		}
	}

	if positional < mandatory {
		return "Insufficient arguments given"
	}
	if positional > mandatory+optional {
		return "Too many arguments given"
	}
	return ""
}

// FindArgument looks up the value supplied for one of item's declared
// parameters in the raw token list a handler received.
//
// For positional parameters the lookup counts non-flag tokens:
// the k-th mandatory parameter takes the k-th positional token, and
// optional parameters continue the numbering after all mandatory ones.
// A named parameter yields the empty string when --name is present.
// A named-value parameter yields the text after = in --name=text; a
// bare --name does not count, and --name= yields the empty string.
// When several tokens could satisfy the lookup, the first one wins.
//
// found is false when the tokens simply do not supply the parameter,
// which for optional and named kinds is an ordinary outcome. err is
// non-nil only for contract violations: ErrNotCallback when the item
// has no parameters to search, ErrUnknownParameter when name is not
// declared on it.
func FindArgument(item *Item, args []string, name string) (value string, found bool, err error) {
	if item.kind() != callbackItem {
		return "", false, ErrNotCallback
	}

	var param Parameter
	declared := false
	mandatoryBefore := 0
	optionalBefore := 0
	mandatoryTotal := 0
	for _, p := range item.Parameters {
		if p.Kind == ParameterMandatory {
			mandatoryTotal++
		}
		if !declared {
			if p.Name == name {
				param = p
				declared = true
				continue
			}
			switch p.Kind {
			case ParameterMandatory:
				mandatoryBefore++
			case ParameterOptional:
				optionalBefore++
			}
		}
	}
	if !declared {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	switch param.Kind {
	case ParameterMandatory, ParameterOptional:
		target := mandatoryBefore
		if param.Kind == ParameterOptional {
			target = mandatoryTotal + optionalBefore
		}
		seen := 0
		for _, token := range args {
			if strings.HasPrefix(token, "--") {
				continue
			}
			if seen == target {
				return token, true, nil
			}
			seen++
		}
		return "", false, nil

	case ParameterNamed:
		flag := "--" + param.Name
		for _, token := range args {
			if token == flag {
				return "", true, nil
			}
		}
		return "", false, nil

	case ParameterNamedValue:
		prefix := "--" + param.Name + "="
		for _, token := range args {
			if strings.HasPrefix(token, prefix) {
				return strings.TrimPrefix(token, prefix), true, nil
			}
		}
		return "", false, nil

	default:
		return "", false, fmt.Errorf("menu: parameter %q has invalid kind %v", name, param.Kind)
	}
}
