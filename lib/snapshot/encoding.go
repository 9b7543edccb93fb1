// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The snapshot digest is computed over this encoding, so it must be
// stable for a given value.
var encMode cbor.EncMode

// decMode rejects duplicate map keys. Unknown struct fields are
// ignored so older binaries can read snapshots with added fields.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshalPayload(value any) ([]byte, error) {
	return encMode.Marshal(value)
}

func unmarshalPayload(data []byte, value any) error {
	return decMode.Unmarshal(data, value)
}
