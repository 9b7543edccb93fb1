// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signdict

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bureau-foundation/swdict/lib/sign"
	"github.com/bureau-foundation/swdict/lib/snapshot"
)

// DefaultSnapshotName is the store name the repository is saved
// under unless configured otherwise.
const DefaultSnapshotName = "swdict.snap"

// repositorySnapshot is the persisted form: signs in repository
// order.
type repositorySnapshot struct {
	Signs []sign.Sign `cbor:"signs"`
}

// LoadSnapshot replaces the contents with the snapshot stored under
// name. The snapshot's signs are taken as-is.
func (r *Repository) LoadSnapshot(ctx context.Context, store snapshot.Store, name string) error {
	var persisted repositorySnapshot
	if err := snapshot.Load(ctx, store, name, snapshot.KindRepository, &persisted); err != nil {
		return fmt.Errorf("signdict: %w", err)
	}
	r.replace(persisted.Signs)
	r.logger.Info("sign repository loaded", "snapshot", name, "signs", len(r.order))
	return nil
}

// SaveSnapshot writes the contents under name, replacing any
// existing snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, store snapshot.Store, name string, tag snapshot.CompressionTag) error {
	persisted := repositorySnapshot{Signs: r.Signs()}
	if persisted.Signs == nil {
		persisted.Signs = []sign.Sign{}
	}
	if err := snapshot.Save(ctx, store, name, snapshot.KindRepository, persisted, tag); err != nil {
		return fmt.Errorf("signdict: %w", err)
	}
	return nil
}

// LoadSnapshotFile is LoadSnapshot for a snapshot file path.
func (r *Repository) LoadSnapshotFile(ctx context.Context, path string) error {
	store, name, err := fileStore(path)
	if err != nil {
		return err
	}
	return r.LoadSnapshot(ctx, store, name)
}

// SaveSnapshotFile is SaveSnapshot for a snapshot file path. The
// parent directory is created if needed.
func (r *Repository) SaveSnapshotFile(ctx context.Context, path string, tag snapshot.CompressionTag) error {
	store, name, err := fileStore(path)
	if err != nil {
		return err
	}
	return r.SaveSnapshot(ctx, store, name, tag)
}

func fileStore(path string) (*snapshot.DirStore, string, error) {
	store, err := snapshot.NewDirStore(filepath.Dir(path))
	if err != nil {
		return nil, "", fmt.Errorf("signdict: %w", err)
	}
	return store, filepath.Base(path), nil
}
