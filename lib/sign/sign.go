// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sign

// Symbol is one placed symbol of a sign: the index id of its SSS
// code within the partition selected by Category, and its position.
type Symbol struct {
	Category int `cbor:"category" json:"category"`
	ID       int `cbor:"id"       json:"id"`
	X        int `cbor:"x"        json:"x"`
	Y        int `cbor:"y"        json:"y"`
}

// Sign is a dictionary entry. Symbols are in spelling order.
type Sign struct {
	ID      int      `cbor:"id"      json:"id"`
	Gloss   string   `cbor:"gloss"   json:"gloss"`
	Tag     string   `cbor:"tag"     json:"tag"`
	Symbols []Symbol `cbor:"symbols" json:"symbols"`
}

// Name returns the gloss followed by the homograph tag.
func (s Sign) Name() string {
	return s.Gloss + s.Tag
}
