// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/swdict/lib/sqlitepool"
)

// SignSchema creates the Signs and Spelling tables.
const SignSchema = `
CREATE TABLE Signs (
	SignID     INTEGER,
	Gloss      TEXT,
	Tag        TEXT,
	StdGloss   TEXT,
	IsCompound INTEGER
);
CREATE TABLE Spelling (
	SignID INTEGER NOT NULL,
	SubID  INTEGER NOT NULL,
	SSS    TEXT,
	pos_x  INTEGER,
	pos_y  INTEGER
);
`

// SampleSigns populates the tables created by [SignSchema].
//
//	1 父 (FATHER)   two symbols, spelling inserted out of SubID order
//	2 MOTHER        one resolvable symbol, NULL Tag and StdGloss
//	3 MOTHER tag 2  homograph of 2
//	4 MOM           alias of MOTHER
//	5 PARENTS       compound
//	6 EMPTY         no spelling rows
//	7 BROKEN        one malformed SSS, one valid
const SampleSigns = `
INSERT INTO Signs VALUES (3, 'MOTHER', '2', '', 0);
INSERT INTO Signs VALUES (1, '父', '', '', 0);
INSERT INTO Signs VALUES (2, 'MOTHER', NULL, NULL, 0);
INSERT INTO Signs VALUES (4, 'MOM', '', 'MOTHER', 0);
INSERT INTO Signs VALUES (5, 'PARENTS', '', '', 1);
INSERT INTO Signs VALUES (6, 'EMPTY', '', '', 0);
INSERT INTO Signs VALUES (7, 'BROKEN', '', '', NULL);

INSERT INTO Spelling VALUES (1, 2, '02-01-001-01-01-00', 20, -5);
INSERT INTO Spelling VALUES (1, 1, '01-05-001-01-01-01', 10, 3);
INSERT INTO Spelling VALUES (2, 1, '04-01-001-01-01-01', 0, 0);
INSERT INTO Spelling VALUES (3, 1, '01-05-001-01-01-01', 1, 1);
INSERT INTO Spelling VALUES (3, 2, '05-01-002-01-01-01', 2, 2);
INSERT INTO Spelling VALUES (4, 1, '01-05-001-01-01-01', 0, 0);
INSERT INTO Spelling VALUES (5, 1, '01-05-001-01-01-01', 0, 0);
INSERT INTO Spelling VALUES (7, 1, '01-05-1', 0, 0);
INSERT INTO Spelling VALUES (7, 2, '03-01-001-01-01-08', 4, 4);
`

// SampleCodes lists the distinct SSS texts in [SampleSigns], sorted.
var SampleCodes = []string{
	"01-05-001-01-01-01",
	"01-05-1",
	"02-01-001-01-01-00",
	"03-01-001-01-01-08",
	"04-01-001-01-01-01",
	"05-01-002-01-01-01",
}

// SignDatabase creates a SQLite database in a temporary directory,
// runs script on it, and returns the file path. The database is left
// in rollback-journal mode so it can be opened read-only.
func SignDatabase(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "swdic.db")
	pool, err := sqlitepool.Open(sqlitepool.Config{Path: path})
	if err != nil {
		t.Fatalf("opening fixture database: %v", err)
	}
	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("taking fixture connection: %v", err)
	}
	if err := sqlitex.ExecuteScript(conn, script, nil); err != nil {
		t.Fatalf("running fixture script: %v", err)
	}
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode=DELETE", nil); err != nil {
		t.Fatalf("leaving WAL mode: %v", err)
	}
	pool.Put(conn)
	if err := pool.Close(); err != nil {
		t.Fatalf("closing fixture database: %v", err)
	}
	return path
}

// SampleDatabase is SignDatabase with [SignSchema] and [SampleSigns].
func SampleDatabase(t *testing.T) string {
	t.Helper()
	return SignDatabase(t, SignSchema+SampleSigns)
}
