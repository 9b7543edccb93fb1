// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the swdict YAML configuration.
//
// Configuration is loaded from a single file named by either the
// SWDICT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no file discovery. Commands that run
// without any configuration use [Default].
//
// The file may contain development and production sections that
// override base values when [Config].Environment matches. Production
// defaults to JSON logs at info level.
//
// After loading, ${HOME}, ${SWDICT_ROOT} and ${VAR:-default} patterns
// are expanded in path, source, and storage fields. Other environment
// variables are only consulted through these patterns, which is how
// credentials are kept out of the file:
//
//	storage:
//	  backend: s3
//	  s3:
//	    endpoint: minio.internal:9000
//	    access_key: ${SWDICT_S3_ACCESS_KEY}
//	    secret_key: ${SWDICT_S3_SECRET_KEY}
//	    bucket: swdict
//
// Key exports:
//
//   - [Config] -- root struct with Paths, Source, Storage, Index,
//     Repository and Log sections
//   - [Default] -- a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
