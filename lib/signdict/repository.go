// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signdict

import (
	"log/slog"

	"github.com/bureau-foundation/swdict/lib/sign"
)

// Config holds the parameters for constructing a [Repository].
type Config struct {
	// Logger receives build progress and dropped-symbol messages. If
	// nil, a no-op logger is used.
	Logger *slog.Logger
}

// Repository maps sign ids to signs.
type Repository struct {
	logger *slog.Logger

	signs map[int]sign.Sign
	order []int

	// vocabulary is built on first use and reset whenever the
	// contents are replaced.
	vocabulary map[int]int
}

// New returns an empty repository.
func New(cfg Config) *Repository {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		logger: logger,
		signs:  make(map[int]sign.Sign),
	}
}

// replace installs new contents in the given order. Later duplicates
// of an id replace the earlier sign but keep its position.
func (r *Repository) replace(signs []sign.Sign) {
	byID := make(map[int]sign.Sign, len(signs))
	order := make([]int, 0, len(signs))
	for _, s := range signs {
		if _, exists := byID[s.ID]; !exists {
			order = append(order, s.ID)
		}
		byID[s.ID] = s
	}
	r.signs = byID
	r.order = order
	r.vocabulary = nil
}

// Count returns the number of signs.
func (r *Repository) Count() int {
	return len(r.order)
}

// ByID returns the sign registered under id.
func (r *Repository) ByID(id int) (sign.Sign, bool) {
	s, ok := r.signs[id]
	return s, ok
}

// ByGloss returns every sign whose gloss equals gloss, in repository
// order. Homographs share a gloss and differ by tag.
func (r *Repository) ByGloss(gloss string) []sign.Sign {
	return r.filter(func(s sign.Sign) bool { return s.Gloss == gloss })
}

// ByName returns every sign whose gloss followed by tag equals name,
// in repository order.
func (r *Repository) ByName(name string) []sign.Sign {
	return r.filter(func(s sign.Sign) bool { return s.Name() == name })
}

// Signs returns every sign in repository order.
func (r *Repository) Signs() []sign.Sign {
	return r.filter(func(sign.Sign) bool { return true })
}

func (r *Repository) filter(match func(sign.Sign) bool) []sign.Sign {
	var matched []sign.Sign
	for _, id := range r.order {
		if s := r.signs[id]; match(s) {
			matched = append(matched, s)
		}
	}
	return matched
}

// VocabularyIndex maps every sign id to a dense serial number
// 0..Count()-1 in repository order, for building one-hot vectors.
// The returned map is a copy.
func (r *Repository) VocabularyIndex() map[int]int {
	if r.vocabulary == nil {
		r.vocabulary = make(map[int]int, len(r.order))
		for serial, id := range r.order {
			r.vocabulary[id] = serial
		}
	}
	vocabulary := make(map[int]int, len(r.vocabulary))
	for id, serial := range r.vocabulary {
		vocabulary[id] = serial
	}
	return vocabulary
}
