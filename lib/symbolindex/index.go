// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package symbolindex

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bureau-foundation/swdict/lib/snapshot"
	"github.com/bureau-foundation/swdict/lib/sss"
)

// DefaultReverseCacheSize is used when Config.ReverseCacheSize is
// zero or negative.
const DefaultReverseCacheSize = 1024

// Config holds the parameters for constructing an [Index].
type Config struct {
	// Store holds the three partition snapshots. Required for
	// [Index.Load]; an index produced by [Builder.Build] never reads
	// it.
	Store snapshot.Store

	// Logger receives soft-miss and load messages. If nil, a no-op
	// logger is used.
	Logger *slog.Logger

	// ReverseCacheSize bounds the number of memoized reverse lookups.
	ReverseCacheSize int
}

// Resolution is the result of resolving an SSS.
type Resolution struct {
	ID        int
	Category  int
	Partition Partition
}

type reverseKey struct {
	partition Partition
	id        int
}

// Index is the category-partitioned symbol index.
type Index struct {
	store  snapshot.Store
	logger *slog.Logger

	loaded bool
	tables [partitionCount]table

	reverse *lru.Cache[reverseKey, sss.Packed]
}

// New constructs an unloaded index.
func New(cfg Config) (*Index, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := cfg.ReverseCacheSize
	if size <= 0 {
		size = DefaultReverseCacheSize
	}
	reverse, err := lru.New[reverseKey, sss.Packed](size)
	if err != nil {
		return nil, fmt.Errorf("symbolindex: creating reverse cache: %w", err)
	}
	return &Index{
		store:   cfg.Store,
		logger:  logger,
		reverse: reverse,
	}, nil
}

// Loaded reports whether the partitions are in memory.
func (ix *Index) Loaded() bool {
	return ix.loaded
}

// Load reads the three partition snapshots. It is a no-op once the
// index is loaded. If any snapshot is missing or corrupt, nothing is
// committed and the error (wrapping [snapshot.ErrNotFound] or
// [snapshot.ErrCorrupt]) is returned.
func (ix *Index) Load(ctx context.Context) error {
	if ix.loaded {
		return nil
	}
	if ix.store == nil {
		return fmt.Errorf("symbolindex: no snapshot store configured")
	}

	var tables [partitionCount]table
	for _, p := range Partitions {
		loaded, err := ix.loadPartition(ctx, p)
		if err != nil {
			return err
		}
		tables[p] = loaded
	}

	ix.tables = tables
	ix.loaded = true
	ix.reverse.Purge()
	ix.logger.Info("symbol index loaded",
		"handshape", len(tables[Handshape].entries),
		"head_face", len(tables[HeadFace].entries),
		"movement", len(tables[Movement].entries),
	)
	return nil
}

func (ix *Index) loadPartition(ctx context.Context, p Partition) (table, error) {
	name := p.SnapshotName()
	var persisted partitionSnapshot
	if err := snapshot.Load(ctx, ix.store, name, snapshot.KindPartition, &persisted); err != nil {
		return table{}, fmt.Errorf("symbolindex: %s partition: %w", p, err)
	}
	if persisted.Partition != p.String() {
		return table{}, fmt.Errorf("symbolindex: %s: %w: holds partition %q, want %q",
			name, snapshot.ErrCorrupt, persisted.Partition, p)
	}

	loaded := newTable()
	loaded.entries = persisted.Entries
	seenIDs := make(map[int]struct{}, len(persisted.Entries))
	duplicateIDs := 0
	for _, entry := range persisted.Entries {
		if _, exists := loaded.byKey[entry.Key]; exists {
			return table{}, fmt.Errorf("symbolindex: %s: %w: duplicate key %s", name, snapshot.ErrCorrupt, entry.Key)
		}
		loaded.byKey[entry.Key] = entry.ID
		if _, exists := seenIDs[entry.ID]; exists {
			duplicateIDs++
		}
		seenIDs[entry.ID] = struct{}{}
	}
	if duplicateIDs > 0 {
		ix.logger.Warn("partition has duplicate ids; reverse lookup returns the first key",
			"partition", p.String(),
			"duplicates", duplicateIDs,
		)
	}
	return loaded, nil
}

// Resolve looks up code in the partition selected by its category,
// loading the index first if needed. A key that is absent, or a
// category with no partition, is a soft miss: it is logged and
// reported as ok=false with a nil error.
func (ix *Index) Resolve(ctx context.Context, code sss.SSS) (Resolution, bool, error) {
	if err := ix.Load(ctx); err != nil {
		return Resolution{}, false, err
	}

	key, err := code.Packed()
	if err != nil {
		return Resolution{}, false, err
	}
	category := key.Category()

	p, ok := PartitionFor(category)
	if !ok {
		ix.logger.Warn("SSS category has no partition", "sss", key.String(), "category", category)
		return Resolution{}, false, nil
	}

	id, ok := ix.tables[p].byKey[key]
	if !ok {
		ix.logger.Warn("SSS not in index", "sss", key.String(), "partition", p.String())
		return Resolution{}, false, nil
	}
	return Resolution{ID: id, Category: category, Partition: p}, true, nil
}

// ReverseResolve returns the canonical SSS text for id in the
// partition selected by category. The partition is scanned in
// snapshot order and the first matching key wins.
func (ix *Index) ReverseResolve(ctx context.Context, id, category int) (string, bool, error) {
	if err := ix.Load(ctx); err != nil {
		return "", false, err
	}

	p, ok := PartitionFor(category)
	if !ok {
		ix.logger.Warn("category has no partition", "category", category)
		return "", false, nil
	}

	cacheKey := reverseKey{partition: p, id: id}
	if key, ok := ix.reverse.Get(cacheKey); ok {
		return key.String(), true, nil
	}

	for _, entry := range ix.tables[p].entries {
		if entry.ID == id {
			ix.reverse.Add(cacheKey, entry.Key)
			return entry.Key.String(), true, nil
		}
	}
	ix.logger.Warn("id not in index", "id", id, "partition", p.String())
	return "", false, nil
}

// Len returns the number of entries in partition p. Zero until the
// index is loaded.
func (ix *Index) Len(p Partition) int {
	if int(p) >= partitionCount {
		return 0
	}
	return len(ix.tables[p].entries)
}

// Entries returns a copy of partition p's entries in snapshot order.
func (ix *Index) Entries(p Partition) []Entry {
	if int(p) >= partitionCount {
		return nil
	}
	return append([]Entry(nil), ix.tables[p].entries...)
}

// Save writes the three partitions to store. The index must be
// loaded.
func (ix *Index) Save(ctx context.Context, store snapshot.Store, tag snapshot.CompressionTag) error {
	if !ix.loaded {
		return fmt.Errorf("symbolindex: cannot save an index that is not loaded")
	}
	for _, p := range Partitions {
		persisted := partitionSnapshot{
			Partition: p.String(),
			Entries:   ix.tables[p].entries,
		}
		if persisted.Entries == nil {
			persisted.Entries = []Entry{}
		}
		if err := snapshot.Save(ctx, store, p.SnapshotName(), snapshot.KindPartition, persisted, tag); err != nil {
			return fmt.Errorf("symbolindex: saving %s partition: %w", p, err)
		}
	}
	return nil
}
