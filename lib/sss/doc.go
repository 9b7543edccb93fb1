// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sss implements the SSS (Symbol-Shape-String) codec for
// SignWriting symbol codes.
//
// An SSS is written as six dash-separated, zero-padded decimal fields:
//
//	CC-GG-BBB-VV-FF-RR
//	category-group-base-variation-fill-rotation
//
// [Pack] converts the text form into a 4-byte [Packed] key and
// [Unpack] converts it back. The packed layout is:
//
//	byte 0: category<<4 | group
//	byte 1: base symbol
//	byte 2: variation<<4 | fill
//	byte 3: rotation
//
// Category, group, variation and fill are 4-bit fields; base symbol
// and rotation are 8-bit fields. Pack rejects anything that does not
// fit with a [*FormatError]. For every in-range input, Unpack(Pack(s))
// returns s in canonical zero-padded form.
//
// Callers that accept either representation use the [SSS] variant,
// built with [FromText] or [FromPacked]. [SSS.Category] reads the
// category field without decoding the rest of the code, and
// [SSS.Packed] normalizes to the packed key used by the symbol index.
//
// This package depends on no other swdict packages.
package sss
