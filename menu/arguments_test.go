// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func fooItem() *Item {
	root, _, _ := demoTree()
	return root.Items[0]
}

func TestCheckArguments(t *testing.T) {
	item := fooItem()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"mandatory only", []string{"x"}, ""},
		{"mandatory and optional", []string{"x", "y"}, ""},
		{"all four kinds", []string{"x", "y", "--verbose", "--level=9"}, ""},
		{"missing mandatory", nil, "Insufficient arguments given"},
		{"flag does not count positionally", []string{"--verbose"}, "Insufficient arguments given"},
		{"excess positional", []string{"x", "y", "z"}, "Too many arguments given"},
		{"unknown flag", []string{"x", "--bogus"}, `Did not understand "--bogus"`},
		{"unknown flag with value", []string{"x", "--bogus=3"}, `Did not understand "--bogus=3"`},
		{"unknown flag reported before counts", []string{"--bogus"}, `Did not understand "--bogus"`},
		{"value suffix ignored for membership", []string{"x", "--verbose=9"}, ""},
		{"named flag form of named-value accepted", []string{"x", "--level"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkArguments(item, tt.args); got != tt.want {
				t.Errorf("checkArguments(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

// TestCheckArgumentsCountWindow exercises the acceptance window: with
// m mandatory and o optional parameters, any positional count in
// [m, m+o] passes and anything outside fails on the matching side.
func TestCheckArgumentsCountWindow(t *testing.T) {
	item := &Item{
		Command: "win",
		Handler: nopHandler,
		Parameters: []Parameter{
			Mandatory("m1", ""),
			Mandatory("m2", ""),
			Optional("o1", ""),
			Optional("o2", ""),
		},
	}

	for supplied := 0; supplied <= 6; supplied++ {
		args := make([]string, supplied)
		for i := range args {
			args[i] = fmt.Sprintf("t%d", i)
		}
		got := checkArguments(item, args)
		var want string
		switch {
		case supplied < 2:
			want = "Insufficient arguments given"
		case supplied > 4:
			want = "Too many arguments given"
		}
		if got != want {
			t.Errorf("count %d: checkArguments = %q, want %q", supplied, got, want)
		}
	}
}

func TestFindArgument(t *testing.T) {
	item := fooItem()
	args := []string{"x", "y", "--verbose", "--level=9"}

	tests := []struct {
		param     string
		wantValue string
		wantFound bool
	}{
		{"a", "x", true},
		{"b", "y", true},
		{"verbose", "", true},
		{"level", "9", true},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			value, found, err := FindArgument(item, args, tt.param)
			if err != nil {
				t.Fatalf("FindArgument(%q) error: %v", tt.param, err)
			}
			if found != tt.wantFound || value != tt.wantValue {
				t.Errorf("FindArgument(%q) = (%q, %v), want (%q, %v)",
					tt.param, value, found, tt.wantValue, tt.wantFound)
			}
		})
	}
}

func TestFindArgumentAbsent(t *testing.T) {
	item := fooItem()

	// Optional b omitted, flags omitted.
	for _, param := range []string{"b", "verbose", "level"} {
		value, found, err := FindArgument(item, []string{"x"}, param)
		if err != nil {
			t.Fatalf("FindArgument(%q) error: %v", param, err)
		}
		if found || value != "" {
			t.Errorf("FindArgument(%q) = (%q, %v), want absent", param, value, found)
		}
	}
}

// TestFindArgumentNamedValueForms pins the three syntactic shapes of a
// named-value flag: --x is absent (not empty), --x= is the empty
// string, --x=v is v.
func TestFindArgumentNamedValueForms(t *testing.T) {
	item := fooItem()

	tests := []struct {
		name      string
		args      []string
		wantValue string
		wantFound bool
	}{
		{"bare flag is absent", []string{"x", "--level"}, "", false},
		{"empty value", []string{"x", "--level="}, "", true},
		{"value", []string{"x", "--level=42"}, "42", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found, err := FindArgument(item, tt.args, "level")
			if err != nil {
				t.Fatalf("FindArgument error: %v", err)
			}
			if found != tt.wantFound || value != tt.wantValue {
				t.Errorf("FindArgument(%v) = (%q, %v), want (%q, %v)",
					tt.args, value, found, tt.wantValue, tt.wantFound)
			}
		})
	}
}

func TestFindArgumentFirstMatchWins(t *testing.T) {
	item := fooItem()

	value, found, err := FindArgument(item, []string{"x", "--level=1", "--level=2"}, "level")
	if err != nil {
		t.Fatalf("FindArgument error: %v", err)
	}
	if !found || value != "1" {
		t.Errorf("FindArgument with duplicates = (%q, %v), want (%q, true)", value, found, "1")
	}
}

func TestFindArgumentContractErrors(t *testing.T) {
	root, _, _ := demoTree()

	t.Run("submenu item", func(t *testing.T) {
		subItem := root.Items[2]
		_, _, err := FindArgument(subItem, nil, "a")
		if !errors.Is(err, ErrNotCallback) {
			t.Errorf("FindArgument on submenu item error = %v, want ErrNotCallback", err)
		}
	})

	t.Run("undeclared parameter", func(t *testing.T) {
		_, _, err := FindArgument(fooItem(), []string{"x"}, "no_such_arg")
		if !errors.Is(err, ErrUnknownParameter) {
			t.Errorf("FindArgument(undeclared) error = %v, want ErrUnknownParameter", err)
		}
	})
}

// TestFindArgumentRandomized cross-checks the finder against direct
// positional indexing over generated schemas and token lists: the k-th
// mandatory parameter must see the k-th non-flag token, and optionals
// continue the numbering after the mandatory block, regardless of how
// flag tokens are interleaved.
func TestFindArgumentRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(421))

	for round := 0; round < 250; round++ {
		mandatoryCount := rng.Intn(4)
		optionalCount := rng.Intn(4)

		params := []Parameter{}
		for i := 0; i < mandatoryCount; i++ {
			params = append(params, Mandatory(fmt.Sprintf("m%d", i), ""))
		}
		for i := 0; i < optionalCount; i++ {
			params = append(params, Optional(fmt.Sprintf("o%d", i), ""))
		}
		params = append(params, Named("flag", ""), NamedValue("kv", "V", ""))
		item := &Item{Command: "r", Handler: nopHandler, Parameters: params}

		// Build a token list with positionals t0..tn-1 and randomly
		// interleaved declared flags.
		positionalCount := rng.Intn(mandatoryCount + optionalCount + 2)
		var tokens []string
		var positionals []string
		for i := 0; i < positionalCount; i++ {
			if rng.Intn(3) == 0 {
				tokens = append(tokens, "--flag")
			}
			if rng.Intn(3) == 0 {
				tokens = append(tokens, fmt.Sprintf("--kv=v%d", i))
			}
			token := fmt.Sprintf("t%d", i)
			tokens = append(tokens, token)
			positionals = append(positionals, token)
		}

		for i := 0; i < mandatoryCount; i++ {
			value, found, err := FindArgument(item, tokens, fmt.Sprintf("m%d", i))
			if err != nil {
				t.Fatalf("round %d: FindArgument(m%d) error: %v", round, i, err)
			}
			if i < len(positionals) {
				if !found || value != positionals[i] {
					t.Fatalf("round %d tokens %v: m%d = (%q, %v), want (%q, true)",
						round, tokens, i, value, found, positionals[i])
				}
			} else if found {
				t.Fatalf("round %d tokens %v: m%d = (%q, true), want absent",
					round, tokens, i, value)
			}
		}
		for i := 0; i < optionalCount; i++ {
			target := mandatoryCount + i
			value, found, err := FindArgument(item, tokens, fmt.Sprintf("o%d", i))
			if err != nil {
				t.Fatalf("round %d: FindArgument(o%d) error: %v", round, i, err)
			}
			if target < len(positionals) {
				if !found || value != positionals[target] {
					t.Fatalf("round %d tokens %v: o%d = (%q, %v), want (%q, true)",
						round, tokens, i, value, found, positionals[target])
				}
			} else if found {
				t.Fatalf("round %d tokens %v: o%d = (%q, true), want absent",
					round, tokens, i, value)
			}
		}

		// The interleaved flags must also resolve: the first --kv=v
		// token wins.
		kvValue, kvFound, err := FindArgument(item, tokens, "kv")
		if err != nil {
			t.Fatalf("round %d: FindArgument(kv) error: %v", round, err)
		}
		wantKv := ""
		for _, token := range tokens {
			if strings.HasPrefix(token, "--kv=") {
				wantKv = strings.TrimPrefix(token, "--kv=")
				break
			}
		}
		if kvFound != (wantKv != "") {
			// wantKv is never the empty string when present: values
			// are v<N>.
			t.Fatalf("round %d tokens %v: kv found = %v, want %v", round, tokens, kvFound, wantKv != "")
		}
		if kvValue != wantKv {
			t.Fatalf("round %d tokens %v: kv = %q, want %q", round, tokens, kvValue, wantKv)
		}
	}
}
