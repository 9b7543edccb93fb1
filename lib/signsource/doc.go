// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signsource reads the relational sign tables a repository is
// built from:
//
//	Signs(SignID, Gloss, Tag, StdGloss, IsCompound)
//	Spelling(SignID, SSS, pos_x, pos_y, SubID)
//
// [SQLiteSource] reads a SQLite file through a single read-only
// zombiezen connection. [SQLSource] reads any database/sql database;
// [OpenPostgres] connects one through the pgx driver.
//
// Rows whose shape cannot be interpreted produce a [*SchemaError].
// NULL Tag and StdGloss columns read as empty strings, and a NULL
// IsCompound reads as false.
package signsource
