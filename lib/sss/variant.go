// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sss

import (
	"errors"
	"fmt"
)

// ErrNoForm is returned by [SSS] methods called on the zero value.
var ErrNoForm = errors.New("SSS has no representation")

// Form identifies which representation an [SSS] carries.
type Form uint8

const (
	// FormNone is the zero value. Every operation on it fails.
	FormNone Form = iota

	// FormText is the six-segment string "CC-GG-BBB-VV-FF-RR".
	FormText

	// FormPacked is the 4-byte [Packed] key.
	FormPacked
)

// String returns the human-readable name of a form.
func (f Form) String() string {
	switch f {
	case FormNone:
		return "none"
	case FormText:
		return "text"
	case FormPacked:
		return "packed"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// SSS holds a symbol code in exactly one of its two representations.
// The form is fixed at construction; methods switch on it rather than
// inspecting dynamic types.
type SSS struct {
	form   Form
	text   string
	packed Packed
}

// FromText wraps a text-form code. The text is not validated until
// it is used.
func FromText(text string) SSS {
	return SSS{form: FormText, text: text}
}

// FromPacked wraps a packed key.
func FromPacked(p Packed) SSS {
	return SSS{form: FormPacked, packed: p}
}

// Form reports which representation s carries.
func (s SSS) Form() Form {
	return s.form
}

// Category extracts the category field. The text form is packed first
// so both forms accept the same inputs and report the same value; for
// the packed form it is the high nibble of the first byte.
func (s SSS) Category() (int, error) {
	switch s.form {
	case FormText:
		p, err := Pack(s.text)
		if err != nil {
			return 0, err
		}
		return p.Category(), nil
	case FormPacked:
		return s.packed.Category(), nil
	default:
		return 0, ErrNoForm
	}
}

// Packed normalizes s to its packed key, packing the text form.
func (s SSS) Packed() (Packed, error) {
	switch s.form {
	case FormText:
		return Pack(s.text)
	case FormPacked:
		return s.packed, nil
	default:
		return Packed{}, ErrNoForm
	}
}

// String returns the text form as given, or the canonical text of a
// packed key.
func (s SSS) String() string {
	switch s.form {
	case FormText:
		return s.text
	case FormPacked:
		return s.packed.String()
	default:
		return "<none>"
	}
}
