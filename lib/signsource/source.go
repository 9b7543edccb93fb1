// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signsource

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	signsQuery    = "SELECT SignID, Gloss, Tag, StdGloss, IsCompound FROM Signs ORDER BY SignID"
	distinctQuery = "SELECT DISTINCT SSS FROM Spelling WHERE SSS IS NOT NULL ORDER BY SSS"

	signsColumns    = 5
	spellingColumns = 3
)

// spellingQuery selects the spelling of one sign. The placeholder
// syntax depends on the database.
func spellingQuery(placeholder string) string {
	return "SELECT SSS, pos_x, pos_y FROM Spelling WHERE SignID = " + placeholder + " ORDER BY SubID"
}

// SignRow is one row of the Signs table.
type SignRow struct {
	SignID     int
	Gloss      string
	Tag        string
	StdGloss   string
	IsCompound bool
}

// IsAlias reports whether the row is an alias of a standard gloss.
func (r SignRow) IsAlias() bool {
	return r.StdGloss != ""
}

// SpellingRow is one placed symbol of a sign. SSS is the raw text as
// stored; it is not validated here.
type SpellingRow struct {
	SSS string
	X   int
	Y   int
}

// Source is a relational sign source.
type Source interface {
	// Signs calls fn for every sign row in ascending SignID order.
	// Iteration stops at the first error fn returns, which Signs
	// returns unchanged.
	Signs(ctx context.Context, fn func(SignRow) error) error

	// Spelling returns the spelling rows of a sign in SubID order.
	// It may be called from within a Signs callback.
	Spelling(ctx context.Context, signID int) ([]SpellingRow, error)

	// DistinctSSS returns every distinct SSS text in the spelling
	// table, sorted.
	DistinctSSS(ctx context.Context) ([]string, error)

	Close() error
}

// ErrSchema is matched by every [*SchemaError].
var ErrSchema = errors.New("unexpected source schema")

// SchemaError reports a row the source could not interpret.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Reason)
}

// Is reports whether target is [ErrSchema].
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// compoundFromText interprets a textual IsCompound value.
func compoundFromText(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n != 0, nil
	}
	flag, err := strconv.ParseBool(value)
	if err != nil {
		return false, &SchemaError{Table: "Signs", Column: "IsCompound", Reason: fmt.Sprintf("cannot interpret %q as a flag", value)}
	}
	return flag, nil
}
