// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot persists swdict data structures (symbol index
// partitions and the sign repository) as self-checking binary blobs.
//
// A snapshot is a fixed 48-byte header followed by a payload:
//
//	offset  size  field
//	0       4     magic "SWDS"
//	4       1     format version (1)
//	5       1     kind (partition, repository)
//	6       1     compression tag (none, lz4, zstd)
//	7       1     reserved, zero
//	8       4     uncompressed payload size, little-endian
//	12      4     stored payload size, little-endian
//	16      32    BLAKE3 digest of the uncompressed payload
//	48      ...   payload
//
// The uncompressed payload is the CBOR Core Deterministic encoding of
// the value, so the same value always produces identical bytes and an
// identical digest. [Encode] falls back to [CompressionNone] when the
// requested algorithm does not shrink the payload.
//
// [Decode] verifies magic, version, kind, sizes and digest before
// decoding. Every verification failure wraps [ErrCorrupt]; there is
// no partial recovery from a damaged snapshot.
//
// Snapshots live in a [Store]: [DirStore] keeps them as files in a
// data directory, [S3Store] keeps them as objects in an S3-compatible
// bucket. A missing snapshot is reported as [ErrNotFound].
package snapshot
