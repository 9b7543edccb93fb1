// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package symbolindex

import (
	"github.com/bureau-foundation/swdict/lib/sss"
)

// Builder assigns dense ids to packed keys, one id sequence per
// partition. Ids start at 1 in first-seen order; 0 is never assigned
// so downstream encodings can use it for padding.
type Builder struct {
	tables [partitionCount]table
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	b := &Builder{}
	for _, p := range Partitions {
		b.tables[p] = newTable()
	}
	return b
}

// Add assigns an id to key in the partition its category routes to.
// Adding a key twice returns the id from the first call. ok is false
// when the category has no partition.
func (b *Builder) Add(key sss.Packed) (Resolution, bool) {
	category := key.Category()
	p, ok := PartitionFor(category)
	if !ok {
		return Resolution{}, false
	}
	t := &b.tables[p]
	if id, exists := t.byKey[key]; exists {
		return Resolution{ID: id, Category: category, Partition: p}, true
	}
	id := len(t.entries) + 1
	t.entries = append(t.entries, Entry{Key: key, ID: id})
	t.byKey[key] = id
	return Resolution{ID: id, Category: category, Partition: p}, true
}

// AddText packs text and adds it.
func (b *Builder) AddText(text string) (Resolution, bool, error) {
	key, err := sss.Pack(text)
	if err != nil {
		return Resolution{}, false, err
	}
	resolution, ok := b.Add(key)
	return resolution, ok, nil
}

// Len returns the number of keys added to partition p.
func (b *Builder) Len(p Partition) int {
	if int(p) >= partitionCount {
		return 0
	}
	return len(b.tables[p].entries)
}

// Build returns a loaded index holding a copy of the builder's
// partitions. cfg.Store is kept for reference but never read.
func (b *Builder) Build(cfg Config) (*Index, error) {
	ix, err := New(cfg)
	if err != nil {
		return nil, err
	}
	for _, p := range Partitions {
		copied := newTable()
		copied.entries = append([]Entry(nil), b.tables[p].entries...)
		for key, id := range b.tables[p].byKey {
			copied.byKey[key] = id
		}
		ix.tables[p] = copied
	}
	ix.loaded = true
	return ix, nil
}
