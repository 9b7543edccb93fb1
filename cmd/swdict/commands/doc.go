// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the swdict command tree.
//
// Every leaf command accepts the global flags (--config, --env-file,
// --data-dir, --log-level, --log-format) and resolves them into an
// environment: the validated configuration, the command logger, the
// snapshot store, and lazily the symbol index, the relational source,
// and the sign repository. Commands write results to the [App]'s
// stdout and logs to its stderr, so tests drive the tree with buffers.
package commands
