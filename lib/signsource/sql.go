// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect selects the placeholder syntax of a database/sql driver.
type Dialect int

const (
	// DialectPostgres uses numbered placeholders ($1).
	DialectPostgres Dialect = iota

	// DialectQuestion uses positional placeholders (?), as SQLite
	// and MySQL drivers do.
	DialectQuestion
)

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// ParseDialect parses a dialect name: "postgres" or "sqlite".
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3", "question":
		return DialectQuestion, nil
	default:
		return 0, fmt.Errorf("unknown SQL dialect %q", name)
	}
}

// SQLSource reads the sign tables through database/sql. Sign rows are
// read completely before the Signs callback runs, so callbacks may
// query Spelling regardless of the pool's connection limit.
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
	owned   bool
}

// NewSQL wraps an open database. Close does not close db.
func NewSQL(db *sql.DB, dialect Dialect) *SQLSource {
	return &SQLSource{db: db, dialect: dialect}
}

// OpenPostgres connects to dsn with the pgx driver and verifies the
// connection. Close closes the database.
func OpenPostgres(ctx context.Context, dsn string) (*SQLSource, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("signsource: postgres DSN is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("signsource: opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("signsource: connecting to postgres: %w", err)
	}
	return &SQLSource{db: db, dialect: DialectPostgres, owned: true}, nil
}

// Signs implements [Source].
func (s *SQLSource) Signs(ctx context.Context, fn func(SignRow) error) error {
	signs, err := s.readSigns(ctx)
	if err != nil {
		return err
	}
	for _, row := range signs {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLSource) readSigns(ctx context.Context) ([]SignRow, error) {
	rows, err := s.db.QueryContext(ctx, signsQuery)
	if err != nil {
		return nil, fmt.Errorf("signsource: reading Signs: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("signsource: reading Signs: %w", err)
	}
	if len(columns) != signsColumns {
		return nil, &SchemaError{Table: "Signs", Reason: fmt.Sprintf("%d columns, want %d", len(columns), signsColumns)}
	}

	var signs []SignRow
	for rows.Next() {
		var (
			signID               sql.NullInt64
			gloss, tag, stdGloss sql.NullString
			compound             any
		)
		if err := rows.Scan(&signID, &gloss, &tag, &stdGloss, &compound); err != nil {
			return nil, fmt.Errorf("signsource: scanning Signs: %w", err)
		}
		if !signID.Valid {
			return nil, &SchemaError{Table: "Signs", Column: "SignID", Reason: "NULL"}
		}
		isCompound, err := flagValue(compound)
		if err != nil {
			return nil, err
		}
		signs = append(signs, SignRow{
			SignID:     int(signID.Int64),
			Gloss:      gloss.String,
			Tag:        tag.String,
			StdGloss:   stdGloss.String,
			IsCompound: isCompound,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("signsource: reading Signs: %w", err)
	}
	return signs, nil
}

// Spelling implements [Source].
func (s *SQLSource) Spelling(ctx context.Context, signID int) ([]SpellingRow, error) {
	rows, err := s.db.QueryContext(ctx, spellingQuery(s.dialect.placeholder(1)), signID)
	if err != nil {
		return nil, fmt.Errorf("signsource: reading Spelling of sign %d: %w", signID, err)
	}
	defer rows.Close()

	var spelling []SpellingRow
	for rows.Next() {
		var (
			code sql.NullString
			x, y sql.NullInt64
		)
		if err := rows.Scan(&code, &x, &y); err != nil {
			return nil, fmt.Errorf("signsource: scanning Spelling of sign %d: %w", signID, err)
		}
		if !x.Valid {
			return nil, &SchemaError{Table: "Spelling", Column: "pos_x", Reason: "NULL"}
		}
		if !y.Valid {
			return nil, &SchemaError{Table: "Spelling", Column: "pos_y", Reason: "NULL"}
		}
		spelling = append(spelling, SpellingRow{SSS: code.String, X: int(x.Int64), Y: int(y.Int64)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("signsource: reading Spelling of sign %d: %w", signID, err)
	}
	return spelling, nil
}

// DistinctSSS implements [Source].
func (s *SQLSource) DistinctSSS(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, distinctQuery)
	if err != nil {
		return nil, fmt.Errorf("signsource: reading distinct SSS: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("signsource: scanning distinct SSS: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("signsource: reading distinct SSS: %w", err)
	}
	return codes, nil
}

// Close closes the database if the source opened it.
func (s *SQLSource) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// flagValue interprets the driver's representation of a flag column.
func flagValue(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int32:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case []byte:
		return compoundFromText(string(v))
	case string:
		return compoundFromText(v)
	default:
		return false, &SchemaError{Table: "Signs", Column: "IsCompound", Reason: fmt.Sprintf("unsupported type %T", value)}
	}
}
