// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signdict holds the in-memory sign repository: every
// registered sign keyed by its sign id, with lookups by gloss and by
// name (gloss followed by tag).
//
// A [Repository] is filled in one of two ways. [Repository.BuildFromSource]
// reads the relational Signs and Spelling tables, skipping aliases,
// compounds and signs with no spelling, and resolves each spelled
// symbol through the symbol index. [Repository.LoadSnapshot] replaces
// the contents with a previously saved snapshot. Either way the
// previous contents are discarded only once the new ones are complete.
//
// Repository order is the order signs were added: ascending sign id
// for a source build, and stored order for a snapshot load. Snapshots
// are written in repository order, so a build followed by a
// save/load round trip preserves it, and [Repository.VocabularyIndex]
// assigns the same serial numbers either way.
//
// A Repository is not safe for concurrent mutation. Once built or
// loaded it may be shared by readers.
package signdict
