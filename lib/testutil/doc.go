// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for quarterdeck
// packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that tests exercising sessions and server goroutines cannot hang the
// suite when the thing they wait for never happens.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no quarterdeck-internal dependencies.
package testutil
