// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens SQLite databases for swdict with a fixed
// set of connection pragmas.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool. Callers [Pool.Take]
// a connection, run statements with sqlitex.Execute, and [Pool.Put]
// it back. A connection must not be shared between goroutines.
//
// Two modes are supported:
//
//   - Read-only (Config.ReadOnly): the database must already exist and
//     is opened with SQLITE_OPEN_READONLY and query_only=ON. This is
//     how sign source databases are read; nothing swdict does can
//     modify them.
//   - Read-write: the file is created if missing and put in WAL mode
//     with synchronous=NORMAL. Used to produce fixture databases.
//
// Both modes set busy_timeout=5000, cache_size=-8192 (8 MB),
// mmap_size=268435456 (256 MB) and temp_store=MEMORY.
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:     "/srv/swdict/swdic.db",
//	    ReadOnly: true,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
package sqlitepool
