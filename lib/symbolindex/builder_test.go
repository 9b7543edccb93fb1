// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package symbolindex

import (
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/swdict/lib/sss"
)

func TestBuilderAssignsDenseIDsPerPartition(t *testing.T) {
	builder := NewBuilder()
	steps := []struct {
		text      string
		id        int
		partition Partition
	}{
		{"01-01-001-01-01-01", 1, Handshape},
		{"02-01-001-01-01-00", 1, Movement},
		{"01-01-001-01-01-02", 2, Handshape},
		{"04-01-001-01-01-01", 1, HeadFace},
		{"05-01-001-01-01-01", 2, HeadFace},
		{"03-01-001-01-01-01", 2, Movement},
		{"01-01-001-01-01-01", 1, Handshape},
	}
	for _, step := range steps {
		resolution, ok, err := builder.AddText(step.text)
		if err != nil || !ok {
			t.Fatalf("AddText(%q) = %v, %v", step.text, ok, err)
		}
		if resolution.ID != step.id || resolution.Partition != step.partition {
			t.Errorf("AddText(%q) = %+v, want id %d in %s", step.text, resolution, step.id, step.partition)
		}
	}
	if builder.Len(Handshape) != 2 || builder.Len(HeadFace) != 2 || builder.Len(Movement) != 2 {
		t.Errorf("lengths = %d/%d/%d, want 2/2/2", builder.Len(Handshape), builder.Len(HeadFace), builder.Len(Movement))
	}
}

func TestBuilderRejects(t *testing.T) {
	builder := NewBuilder()
	if _, ok := builder.Add(sss.MustPack("06-01-001-01-01-01")); ok {
		t.Error("Add of category 6 should report no partition")
	}
	if _, _, err := builder.AddText("bad"); !errors.Is(err, sss.ErrFormat) {
		t.Errorf("AddText(bad) error = %v, want ErrFormat", err)
	}
}

func TestBuildIsIndependentOfBuilder(t *testing.T) {
	builder := NewBuilder()
	builder.AddText("01-01-001-01-01-01")
	ix, err := builder.Build(Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	builder.AddText("01-01-001-01-01-02")

	if ix.Len(Handshape) != 1 {
		t.Errorf("index Len = %d after further builder adds, want 1", ix.Len(Handshape))
	}
	if _, ok, _ := ix.Resolve(context.Background(), sss.FromText("01-01-001-01-01-02")); ok {
		t.Error("index resolved a key added to the builder after Build")
	}
}

func TestBuildSaveLoadRoundtrip(t *testing.T) {
	store := newDirStore(t)
	builder := NewBuilder()
	texts := []string{"01-01-001-01-01-01", "04-02-010-01-01-03", "02-03-004-02-01-06", "05-01-001-01-01-00"}
	for _, text := range texts {
		builder.AddText(text)
	}
	built, err := builder.Build(Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := built.Save(context.Background(), store, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := newIndex(t, store)
	for _, text := range texts {
		want, _, _ := built.Resolve(context.Background(), sss.FromText(text))
		got, ok, err := loaded.Resolve(context.Background(), sss.FromText(text))
		if err != nil || !ok {
			t.Fatalf("Resolve(%q) after load = %v, %v", text, ok, err)
		}
		if got != want {
			t.Errorf("Resolve(%q) = %+v, want %+v", text, got, want)
		}
	}
}
