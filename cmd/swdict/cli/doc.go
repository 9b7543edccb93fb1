// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for swdict.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. The tree is assembled in cmd/swdict/commands and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples.
//
// Unknown subcommands and flags get a "did you mean" suggestion when
// a known name is within Levenshtein distance 3.
//
// [NewLogger] builds the command logger, [JSONOutput] adds a --json
// flag, and [ExitError] carries a non-zero exit status for commands
// that have already written their output.
package cli
