// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signdict

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/swdict/lib/sign"
	"github.com/bureau-foundation/swdict/lib/signsource"
	"github.com/bureau-foundation/swdict/lib/sss"
)

// BuildStats counts what a source build saw and kept.
type BuildStats struct {
	// Rows is the number of Signs rows read.
	Rows int `json:"rows"`

	// Kept is the number of signs registered.
	Kept int `json:"kept"`

	// Aliases, Compounds and Empty count skipped rows.
	Aliases   int `json:"aliases"`
	Compounds int `json:"compounds"`
	Empty     int `json:"empty"`

	// DroppedSymbols counts spelling rows whose SSS was malformed or
	// absent from the symbol index.
	DroppedSymbols int `json:"dropped_symbols"`
}

// BuildFromSource replaces the repository contents with the signs in
// source. Rows are skipped when they are aliases (non-empty
// StdGloss), compounds, or have no spelling rows. Each spelling row
// is resolved through resolver; unresolvable rows are dropped from
// their sign and counted. On error the previous contents are kept.
func (r *Repository) BuildFromSource(ctx context.Context, source signsource.Source, resolver sign.Resolver) (BuildStats, error) {
	var (
		stats BuildStats
		built []sign.Sign
	)
	err := source.Signs(ctx, func(row signsource.SignRow) error {
		stats.Rows++
		switch {
		case row.IsAlias():
			stats.Aliases++
			return nil
		case row.IsCompound:
			stats.Compounds++
			return nil
		}

		spelling, err := source.Spelling(ctx, row.SignID)
		if err != nil {
			return err
		}
		if len(spelling) == 0 {
			stats.Empty++
			return nil
		}

		assembled := sign.Sign{ID: row.SignID, Gloss: row.Gloss, Tag: row.Tag}
		for _, spelled := range spelling {
			symbol, ok, err := r.resolveSpelling(ctx, resolver, row.SignID, spelled)
			if err != nil {
				return err
			}
			if !ok {
				stats.DroppedSymbols++
				continue
			}
			assembled.Symbols = append(assembled.Symbols, symbol)
		}
		built = append(built, assembled)
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("signdict: building from source: %w", err)
	}

	r.replace(built)
	stats.Kept = len(built)
	r.logger.Info("sign repository built",
		"rows", stats.Rows,
		"kept", stats.Kept,
		"aliases", stats.Aliases,
		"compounds", stats.Compounds,
		"empty", stats.Empty,
		"dropped_symbols", stats.DroppedSymbols,
	)
	return stats, nil
}

func (r *Repository) resolveSpelling(ctx context.Context, resolver sign.Resolver, signID int, spelled signsource.SpellingRow) (sign.Symbol, bool, error) {
	resolution, ok, err := resolver.Resolve(ctx, sss.FromText(spelled.SSS))
	if err != nil {
		if errors.Is(err, sss.ErrFormat) {
			r.logger.Warn("dropping malformed SSS", "sign_id", signID, "sss", spelled.SSS, "error", err)
			return sign.Symbol{}, false, nil
		}
		return sign.Symbol{}, false, fmt.Errorf("sign %d: resolving %q: %w", signID, spelled.SSS, err)
	}
	if !ok {
		r.logger.Warn("dropping unresolved SSS", "sign_id", signID, "sss", spelled.SSS)
		return sign.Symbol{}, false, nil
	}
	return sign.Symbol{
		Category: resolution.Category,
		ID:       resolution.ID,
		X:        spelled.X,
		Y:        spelled.Y,
	}, true, nil
}
