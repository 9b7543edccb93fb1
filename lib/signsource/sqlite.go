// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signsource

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/swdict/lib/sqlitepool"
)

// SQLiteConfig holds the parameters for [OpenSQLite].
type SQLiteConfig struct {
	// Path is the sign database file. It must exist.
	Path string

	// Logger receives open/close messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// SQLiteSource reads a SQLite sign database. It holds one read-only
// connection from open to Close, so a build runs the Signs and
// Spelling statements on the same connection. It is not safe for
// concurrent use.
type SQLiteSource struct {
	pool *sqlitepool.Pool
	conn *sqlite.Conn
}

// OpenSQLite opens the database read-only and takes its connection.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLiteSource, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		ReadOnly: true,
		PoolSize: 1,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("signsource: %w", err)
	}
	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("signsource: %w", err)
	}
	return &SQLiteSource{pool: pool, conn: conn}, nil
}

// Signs implements [Source].
func (s *SQLiteSource) Signs(ctx context.Context, fn func(SignRow) error) error {
	var callbackErr error
	err := sqlitex.Execute(s.conn, signsQuery, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := scanSignRow(stmt)
			if err != nil {
				return err
			}
			if err := fn(row); err != nil {
				callbackErr = err
				return err
			}
			return nil
		},
	})
	if callbackErr != nil {
		return callbackErr
	}
	if err != nil {
		return fmt.Errorf("signsource: reading Signs: %w", err)
	}
	return nil
}

// Spelling implements [Source].
func (s *SQLiteSource) Spelling(ctx context.Context, signID int) ([]SpellingRow, error) {
	var rows []SpellingRow
	err := sqlitex.Execute(s.conn, spellingQuery("?"), &sqlitex.ExecOptions{
		Args: []any{signID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := scanSpellingRow(stmt)
			if err != nil {
				return err
			}
			rows = append(rows, row)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("signsource: reading Spelling of sign %d: %w", signID, err)
	}
	return rows, nil
}

// DistinctSSS implements [Source].
func (s *SQLiteSource) DistinctSSS(ctx context.Context) ([]string, error) {
	var codes []string
	err := sqlitex.Execute(s.conn, distinctQuery, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			codes = append(codes, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("signsource: reading distinct SSS: %w", err)
	}
	return codes, nil
}

// Close releases the connection and closes the database.
func (s *SQLiteSource) Close() error {
	if s.conn != nil {
		s.pool.Put(s.conn)
		s.conn = nil
	}
	return s.pool.Close()
}

func scanSignRow(stmt *sqlite.Stmt) (SignRow, error) {
	if stmt.ColumnCount() != signsColumns {
		return SignRow{}, &SchemaError{Table: "Signs", Reason: fmt.Sprintf("%d columns, want %d", stmt.ColumnCount(), signsColumns)}
	}
	if stmt.ColumnType(0) == sqlite.TypeNull {
		return SignRow{}, &SchemaError{Table: "Signs", Column: "SignID", Reason: "NULL"}
	}
	compound, err := sqliteFlag(stmt, 4)
	if err != nil {
		return SignRow{}, err
	}
	return SignRow{
		SignID:     int(stmt.ColumnInt64(0)),
		Gloss:      stmt.ColumnText(1),
		Tag:        stmt.ColumnText(2),
		StdGloss:   stmt.ColumnText(3),
		IsCompound: compound,
	}, nil
}

func scanSpellingRow(stmt *sqlite.Stmt) (SpellingRow, error) {
	if stmt.ColumnCount() != spellingColumns {
		return SpellingRow{}, &SchemaError{Table: "Spelling", Reason: fmt.Sprintf("%d columns, want %d", stmt.ColumnCount(), spellingColumns)}
	}
	x, err := sqliteInt(stmt, 1, "pos_x")
	if err != nil {
		return SpellingRow{}, err
	}
	y, err := sqliteInt(stmt, 2, "pos_y")
	if err != nil {
		return SpellingRow{}, err
	}
	return SpellingRow{SSS: stmt.ColumnText(0), X: x, Y: y}, nil
}

// sqliteFlag reads a boolean column, accepting the storage classes
// SQLite databases use for flags in practice.
func sqliteFlag(stmt *sqlite.Stmt, column int) (bool, error) {
	switch stmt.ColumnType(column) {
	case sqlite.TypeNull:
		return false, nil
	case sqlite.TypeInteger:
		return stmt.ColumnInt64(column) != 0, nil
	case sqlite.TypeFloat:
		return stmt.ColumnFloat(column) != 0, nil
	case sqlite.TypeText:
		return compoundFromText(stmt.ColumnText(column))
	default:
		return false, &SchemaError{Table: "Signs", Column: "IsCompound", Reason: fmt.Sprintf("unsupported storage class %v", stmt.ColumnType(column))}
	}
}

func sqliteInt(stmt *sqlite.Stmt, column int, name string) (int, error) {
	switch stmt.ColumnType(column) {
	case sqlite.TypeInteger:
		return int(stmt.ColumnInt64(column)), nil
	case sqlite.TypeFloat:
		return int(stmt.ColumnFloat(column)), nil
	case sqlite.TypeText:
		value, err := strconv.Atoi(strings.TrimSpace(stmt.ColumnText(column)))
		if err != nil {
			return 0, &SchemaError{Table: "Spelling", Column: name, Reason: fmt.Sprintf("cannot interpret %q as an integer", stmt.ColumnText(column))}
		}
		return value, nil
	default:
		return 0, &SchemaError{Table: "Spelling", Column: name, Reason: fmt.Sprintf("unsupported storage class %v", stmt.ColumnType(column))}
	}
}
