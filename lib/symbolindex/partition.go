// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package symbolindex

import (
	"fmt"

	"github.com/bureau-foundation/swdict/lib/sss"
)

// Partition identifies one of the three category groups.
type Partition uint8

const (
	// Handshape holds category 1 symbols.
	Handshape Partition = iota

	// HeadFace holds category 4 and 5 symbols.
	HeadFace

	// Movement holds category 2 and 3 symbols (movement and
	// dynamics).
	Movement

	partitionCount = 3
)

// Partitions lists every partition in snapshot order.
var Partitions = [partitionCount]Partition{Handshape, HeadFace, Movement}

// PartitionFor routes a category to its partition. Categories outside
// 1-5 have none.
func PartitionFor(category int) (Partition, bool) {
	switch category {
	case 1:
		return Handshape, true
	case 4, 5:
		return HeadFace, true
	case 2, 3:
		return Movement, true
	default:
		return 0, false
	}
}

// String returns the partition name.
func (p Partition) String() string {
	switch p {
	case Handshape:
		return "handshape"
	case HeadFace:
		return "head-face"
	case Movement:
		return "movement"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}

// SnapshotName returns the file name the partition is persisted
// under. The digits name the categories it covers.
func (p Partition) SnapshotName() string {
	switch p {
	case Handshape:
		return "packed-sss-dict-01.snap"
	case HeadFace:
		return "packed-sss-dict-45.snap"
	case Movement:
		return "packed-sss-dict-23.snap"
	default:
		return fmt.Sprintf("packed-sss-dict-unknown-%d.snap", p)
	}
}

// ParsePartition parses the output of [Partition.String].
func ParsePartition(name string) (Partition, error) {
	for _, p := range Partitions {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown partition %q", name)
}

// Entry is one key/id pair of a partition.
type Entry struct {
	Key sss.Packed `cbor:"key"`
	ID  int        `cbor:"id"`
}

// partitionSnapshot is the persisted form of one partition. Entries
// keep their order so reverse lookups are deterministic.
type partitionSnapshot struct {
	Partition string  `cbor:"partition"`
	Entries   []Entry `cbor:"entries"`
}

// table is the in-memory form of one partition.
type table struct {
	entries []Entry
	byKey   map[sss.Packed]int
}

func newTable() table {
	return table{byKey: make(map[sss.Packed]int)}
}
