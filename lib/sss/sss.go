// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sss

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// segmentCount is the number of dash-separated fields in an SSS string.
const segmentCount = 6

// ErrFormat is matched (via errors.Is) by every [*FormatError].
var ErrFormat = errors.New("malformed SSS")

// FormatError reports an SSS string that cannot be packed: wrong
// segment count, a non-decimal segment, or a field outside its bit
// range.
type FormatError struct {
	// Input is the string passed to Pack.
	Input string

	// Field names the offending field, or is empty when the segment
	// count itself is wrong.
	Field string

	// Reason describes what is wrong with the input.
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed SSS %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("malformed SSS %q: %s %s", e.Input, e.Field, e.Reason)
}

// Is reports whether target is [ErrFormat].
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Fields is the decoded form of an SSS code.
type Fields struct {
	Category   int `json:"category"`
	Group      int `json:"group"`
	BaseSymbol int `json:"base_symbol"`
	Variation  int `json:"variation"`
	Fill       int `json:"fill"`
	Rotation   int `json:"rotation"`
}

// field describes one segment of the text form: its name, the
// largest value its bit field can hold, and its canonical width.
type field struct {
	name  string
	max   int
	width int
}

var fieldLayout = [segmentCount]field{
	{name: "category", max: 0x0f, width: 2},
	{name: "group", max: 0x0f, width: 2},
	{name: "base symbol", max: 0xff, width: 3},
	{name: "variation", max: 0x0f, width: 2},
	{name: "fill", max: 0x0f, width: 2},
	{name: "rotation", max: 0xff, width: 2},
}

// Packed is the 4-byte binary form of an SSS code. It is comparable
// and is used directly as a map key by the symbol index.
type Packed [4]byte

// Pack converts the six-segment text form into its packed key.
// Surrounding whitespace is ignored. Every segment must be a
// non-empty run of decimal digits whose value fits its bit field.
func Pack(text string) (Packed, error) {
	trimmed := strings.TrimSpace(text)
	segments := strings.Split(trimmed, "-")
	if len(segments) != segmentCount {
		return Packed{}, &FormatError{
			Input:  text,
			Reason: fmt.Sprintf("has %d segments, want %d", len(segments), segmentCount),
		}
	}

	var values [segmentCount]int
	for i, segment := range segments {
		layout := fieldLayout[i]
		if segment == "" || !isDecimal(segment) {
			return Packed{}, &FormatError{Input: text, Field: layout.name, Reason: fmt.Sprintf("%q is not a decimal number", segment)}
		}
		value, err := strconv.Atoi(segment)
		if err != nil || value > layout.max {
			return Packed{}, &FormatError{Input: text, Field: layout.name, Reason: fmt.Sprintf("%s exceeds %d", segment, layout.max)}
		}
		values[i] = value
	}

	return FromFields(Fields{
		Category:   values[0],
		Group:      values[1],
		BaseSymbol: values[2],
		Variation:  values[3],
		Fill:       values[4],
		Rotation:   values[5],
	})
}

// MustPack is like [Pack] but panics on malformed input. Intended
// for constants and test fixtures.
func MustPack(text string) Packed {
	packed, err := Pack(text)
	if err != nil {
		panic(err)
	}
	return packed
}

// FromFields packs already-decoded fields, range-checking each one.
func FromFields(f Fields) (Packed, error) {
	values := [segmentCount]int{f.Category, f.Group, f.BaseSymbol, f.Variation, f.Fill, f.Rotation}
	for i, value := range values {
		if value < 0 || value > fieldLayout[i].max {
			return Packed{}, &FormatError{
				Input:  formatFields(values),
				Field:  fieldLayout[i].name,
				Reason: fmt.Sprintf("%d is outside [0, %d]", value, fieldLayout[i].max),
			}
		}
	}
	return Packed{
		byte(f.Category<<4 | f.Group),
		byte(f.BaseSymbol),
		byte(f.Variation<<4 | f.Fill),
		byte(f.Rotation),
	}, nil
}

// Unpack returns the canonical text form of a packed key.
func Unpack(p Packed) string {
	return p.String()
}

// String returns the canonical zero-padded text form, e.g.
// "01-02-003-04-05-06".
func (p Packed) String() string {
	f := p.Fields()
	return formatFields([segmentCount]int{f.Category, f.Group, f.BaseSymbol, f.Variation, f.Fill, f.Rotation})
}

// Fields decodes all six fields.
func (p Packed) Fields() Fields {
	return Fields{
		Category:   p.Category(),
		Group:      p.Group(),
		BaseSymbol: p.BaseSymbol(),
		Variation:  p.Variation(),
		Fill:       p.Fill(),
		Rotation:   p.Rotation(),
	}
}

// Category returns the category field (high nibble of byte 0).
func (p Packed) Category() int {
	return int(p[0] >> 4)
}

// Group returns the group field (low nibble of byte 0).
func (p Packed) Group() int {
	return int(p[0] & 0x0f)
}

// BaseSymbol returns the base symbol field (byte 1).
func (p Packed) BaseSymbol() int {
	return int(p[1])
}

// Variation returns the variation field (high nibble of byte 2).
func (p Packed) Variation() int {
	return int(p[2] >> 4)
}

// Fill returns the fill field (low nibble of byte 2).
func (p Packed) Fill() int {
	return int(p[2] & 0x0f)
}

// Rotation returns the rotation field (byte 3).
func (p Packed) Rotation() int {
	return int(p[3])
}

// Hex returns the 8-digit lowercase hex encoding of the key.
func (p Packed) Hex() string {
	return hex.EncodeToString(p[:])
}

// ParseHex parses the output of [Packed.Hex].
func ParseHex(text string) (Packed, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return Packed{}, fmt.Errorf("parsing packed SSS: %w", err)
	}
	if len(decoded) != len(Packed{}) {
		return Packed{}, fmt.Errorf("packed SSS is %d bytes, want %d", len(decoded), len(Packed{}))
	}
	var p Packed
	copy(p[:], decoded)
	return p, nil
}

func formatFields(values [segmentCount]int) string {
	var builder strings.Builder
	for i, value := range values {
		if i > 0 {
			builder.WriteByte('-')
		}
		fmt.Fprintf(&builder, "%0*d", fieldLayout[i].width, value)
	}
	return builder.String()
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
