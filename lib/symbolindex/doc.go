// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package symbolindex maps packed SSS keys to dense per-category
// symbol identifiers.
//
// The index is split into three disjoint partitions, chosen solely by
// the symbol's category:
//
//	category 1     -> Handshape
//	category 4, 5  -> HeadFace
//	category 2, 3  -> Movement
//
// The same packed key may appear in more than one partition with
// different ids; a lookup only ever consults the partition its
// category routes to. Categories outside 1-5 have no partition.
//
// An [Index] is constructed explicitly and passed to its consumers
// (the sign assembler and the sign repository). Its partitions are
// read from three snapshots in a [snapshot.Store] the first time they
// are needed, or eagerly via [Index.Load], and are immutable after
// that. An Index is not safe for concurrent use until it has been
// loaded; after loading it may be shared read-only.
//
// [Index.Resolve] treats a missing key as a soft miss: it logs and
// returns ok=false, because upstream spelling data routinely
// references symbols outside the loaded dictionaries. Only structural
// failures (a missing or corrupt snapshot, a malformed SSS) are
// returned as errors.
//
// [Index.ReverseResolve] maps an id back to its SSS by scanning the
// partition in snapshot order and returning the first match. Results
// are memoized in a small LRU cache since the scan is linear.
//
// [Builder] assigns ids to a set of keys and produces a loaded Index
// that [Index.Save] can persist, which is how the snapshot files are
// produced from the relational source.
package symbolindex
