// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import "fmt"

// ParameterKind classifies how a declared parameter is supplied on the
// command line.
type ParameterKind int

const (
	// ParameterMandatory is a required positional argument. Mandatory
	// parameters bind to non-flag tokens in declaration order.
	ParameterMandatory ParameterKind = iota

	// ParameterOptional is a positional argument that may be omitted.
	// Optional parameters must be declared after every mandatory one;
	// they bind to the positional tokens left over once all mandatory
	// parameters are satisfied.
	ParameterOptional

	// ParameterNamed is a boolean flag supplied as --name. Its value
	// is its presence.
	ParameterNamed

	// ParameterNamedValue is a flag carrying a value, supplied as
	// --name=value. A bare --name does not satisfy it.
	ParameterNamedValue
)

// String returns the kind name used in help output and diagnostics.
func (k ParameterKind) String() string {
	switch k {
	case ParameterMandatory:
		return "mandatory"
	case ParameterOptional:
		return "optional"
	case ParameterNamed:
		return "named"
	case ParameterNamedValue:
		return "named-value"
	default:
		return fmt.Sprintf("ParameterKind(%d)", int(k))
	}
}

// Parameter declares one argument accepted by a callback item. The
// zero value is not meaningful; build parameters with the Mandatory,
// Optional, Named, and NamedValue constructors or fill every relevant
// field explicitly.
type Parameter struct {
	// Kind selects the supply syntax (positional or --flag).
	Kind ParameterKind

	// Name identifies the parameter. For named kinds this is the flag
	// name without the leading dashes.
	Name string

	// ValueLabel is the placeholder shown for a named-value parameter
	// in help output, e.g. "INT" renders as --level=INT. Ignored for
	// other kinds.
	ValueLabel string

	// Help is the one-line description shown in long help. May be
	// empty.
	Help string
}

// Mandatory declares a required positional parameter.
func Mandatory(name, help string) Parameter {
	return Parameter{Kind: ParameterMandatory, Name: name, Help: help}
}

// Optional declares an omittable positional parameter. Declare
// optionals after all mandatory parameters.
func Optional(name, help string) Parameter {
	return Parameter{Kind: ParameterOptional, Name: name, Help: help}
}

// Named declares a boolean --name flag.
func Named(name, help string) Parameter {
	return Parameter{Kind: ParameterNamed, Name: name, Help: help}
}

// NamedValue declares a --name=value flag. The valueLabel is the
// placeholder rendered in help output.
func NamedValue(name, valueLabel, help string) Parameter {
	return Parameter{Kind: ParameterNamedValue, Name: name, ValueLabel: valueLabel, Help: help}
}

// summary returns the help-output form of the parameter: <name> for
// mandatory, [name] for optional, [--name] for named, [--name=LABEL]
// for named-value.
func (p Parameter) summary() string {
	switch p.Kind {
	case ParameterMandatory:
		return "<" + p.Name + ">"
	case ParameterOptional:
		return "[" + p.Name + "]"
	case ParameterNamed:
		return "[--" + p.Name + "]"
	case ParameterNamedValue:
		label := p.ValueLabel
		if label == "" {
			label = "VALUE"
		}
		return "[--" + p.Name + "=" + label + "]"
	default:
		return p.Name
	}
}
