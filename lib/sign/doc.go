// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sign defines the Symbol and Sign value types and assembles
// signs from markup documents.
//
// A markup document has a root element containing one sign element.
// The sign carries a gloss child and zero or more symbol children,
// each with integer x and y attributes and an SSS code as its text:
//
//	<swml>
//	  <sign>
//	    <gloss>MOTHER</gloss>
//	    <symbol x="12" y="-4">01-05-001-01-01-01</symbol>
//	  </sign>
//	</swml>
//
// Every symbol code is resolved through a [Resolver], normally a
// *symbolindex.Index. Codes the resolver does not know, and codes
// that do not parse, are dropped from the assembled sign. Markup
// signs are not registered in a repository, so they carry ID 0 and
// an empty tag.
package sign
