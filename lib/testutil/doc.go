// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for swdict packages.
//
// [SignDatabase] writes a SQLite sign database from a SQL script and
// returns its path. [SampleSigns] is a script covering every case a
// repository build distinguishes: ordinary signs, homographs told
// apart by tag, aliases, compounds, signs without spelling, NULL
// columns, and spelling rows stored out of SubID order.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
