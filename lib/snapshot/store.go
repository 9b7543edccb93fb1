// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is wrapped by [Store.Read] when no snapshot exists
// under the requested name.
var ErrNotFound = errors.New("snapshot not found")

// Store reads and writes named snapshot blobs. Names are flat file
// names such as "swdict.snap"; stores reject names containing path
// separators.
type Store interface {
	// Read returns the blob stored under name, or an error wrapping
	// ErrNotFound if there is none.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under name, replacing any previous blob.
	Write(ctx context.Context, name string, data []byte) error
}

// Save encodes value as a snapshot of the given kind and writes it
// to store under name.
func Save(ctx context.Context, store Store, name string, kind Kind, value any, tag CompressionTag) error {
	data, err := Encode(kind, value, tag)
	if err != nil {
		return err
	}
	if err := store.Write(ctx, name, data); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads the snapshot stored under name and decodes it into
// value. Errors wrap [ErrNotFound] or [ErrCorrupt] where applicable.
func Load(ctx context.Context, store Store, name string, kind Kind, value any) error {
	data, err := store.Read(ctx, name)
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", name, err)
	}
	if err := Decode(data, kind, value); err != nil {
		return fmt.Errorf("loading snapshot %s: %w", name, err)
	}
	return nil
}

// DirStore keeps snapshots as files in a single directory.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at dir. The directory is created
// on first write.
func NewDirStore(dir string) (*DirStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	return &DirStore{root: dir}, nil
}

// Root returns the directory holding the snapshots.
func (s *DirStore) Root() string {
	return s.root
}

// Path returns the file path used for name.
func (s *DirStore) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, name), nil
}

// Read implements [Store].
func (s *DirStore) Read(_ context.Context, name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

// Write implements [Store]. The file is written to a temporary name
// and renamed into place, so readers never observe a partial
// snapshot.
func (s *DirStore) Write(_ context.Context, name string, data []byte) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	temporary := path + ".tmp"
	if err := os.WriteFile(temporary, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(temporary, path); err != nil {
		_ = os.Remove(temporary)
		return err
	}
	return nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	return nil
}
