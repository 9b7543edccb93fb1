// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

// ErrCorrupt is wrapped by every error that [Decode] returns for a
// snapshot that fails verification or cannot be decoded.
var ErrCorrupt = errors.New("snapshot is corrupt")

const (
	formatVersion = 1
	headerSize    = 48

	// maxPayloadSize bounds the uncompressed payload a header may
	// claim. Decoding allocates the claimed size up front.
	maxPayloadSize = 1 << 30
)

var magic = [4]byte{'S', 'W', 'D', 'S'}

// Kind identifies what a snapshot contains. Decoding a snapshot as
// the wrong kind is a corruption error.
type Kind uint8

const (
	// KindPartition is one symbol index partition.
	KindPartition Kind = 1

	// KindRepository is a sign repository.
	KindRepository Kind = 2
)

// String returns the human-readable name of a kind.
func (k Kind) String() string {
	switch k {
	case KindPartition:
		return "partition"
	case KindRepository:
		return "repository"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Header is the decoded fixed-size snapshot header.
type Header struct {
	Kind             Kind
	Compression      CompressionTag
	UncompressedSize uint32
	StoredSize       uint32
	Digest           [32]byte
}

// Encode serializes value as a snapshot of the given kind. The tag
// is a preference: incompressible payloads are stored uncompressed.
func Encode(kind Kind, value any, tag CompressionTag) ([]byte, error) {
	payload, err := marshalPayload(value)
	if err != nil {
		return nil, fmt.Errorf("encoding %s snapshot: %w", kind, err)
	}
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("encoding %s snapshot: payload of %d bytes exceeds format limit", kind, len(payload))
	}

	stored, usedTag, err := compress(payload, tag)
	if err != nil {
		return nil, fmt.Errorf("compressing %s snapshot: %w", kind, err)
	}

	header := Header{
		Kind:             kind,
		Compression:      usedTag,
		UncompressedSize: uint32(len(payload)),
		StoredSize:       uint32(len(stored)),
		Digest:           blake3.Sum256(payload),
	}

	out := make([]byte, headerSize, headerSize+len(stored))
	header.put(out)
	return append(out, stored...), nil
}

// Decode verifies data as a snapshot of the given kind and decodes
// its payload into value.
func Decode(data []byte, kind Kind, value any) error {
	header, err := ReadHeader(data)
	if err != nil {
		return err
	}
	if header.Kind != kind {
		return fmt.Errorf("%w: contains a %s, want %s", ErrCorrupt, header.Kind, kind)
	}

	stored := data[headerSize:]
	if uint32(len(stored)) != header.StoredSize {
		return fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(stored), header.StoredSize)
	}

	payload, err := decompress(stored, header.Compression, int(header.UncompressedSize))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if blake3.Sum256(payload) != header.Digest {
		return fmt.Errorf("%w: payload digest mismatch", ErrCorrupt)
	}

	if err := unmarshalPayload(payload, value); err != nil {
		return fmt.Errorf("%w: decoding %s payload: %v", ErrCorrupt, kind, err)
	}
	return nil
}

// ReadHeader parses and checks the fixed header without touching the
// payload.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d-byte header", ErrCorrupt, len(data), headerSize)
	}
	if [4]byte(data[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:4])
	}
	if data[4] != formatVersion {
		return Header{}, fmt.Errorf("%w: unsupported format version %d", ErrCorrupt, data[4])
	}

	header := Header{
		Kind:             Kind(data[5]),
		Compression:      CompressionTag(data[6]),
		UncompressedSize: binary.LittleEndian.Uint32(data[8:12]),
		StoredSize:       binary.LittleEndian.Uint32(data[12:16]),
	}
	copy(header.Digest[:], data[16:48])
	if header.UncompressedSize > maxPayloadSize {
		return Header{}, fmt.Errorf("%w: uncompressed size %d exceeds the %d-byte limit", ErrCorrupt, header.UncompressedSize, maxPayloadSize)
	}
	return header, nil
}

func (h Header) put(dst []byte) {
	copy(dst[0:4], magic[:])
	dst[4] = formatVersion
	dst[5] = byte(h.Kind)
	dst[6] = byte(h.Compression)
	dst[7] = 0
	binary.LittleEndian.PutUint32(dst[8:12], h.UncompressedSize)
	binary.LittleEndian.PutUint32(dst[12:16], h.StoredSize)
	copy(dst[16:48], h.Digest[:])
}
