package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/snapshot"
	"github.com/pixil98/go-testutil"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "stash.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := openTempStore(t)

	snap, found, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "found", found, false)
	if snap != nil {
		t.Errorf("expected nil snapshot, got %v", snap)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	catalog := item.NewCatalog(map[string]*item.Kind{
		"arrow": {Name: "Arrow", MaxStack: 20},
	})

	inv := inventory.New(2)
	for range 3 {
		it, err := catalog.Spawn("arrow")
		if err != nil {
			t.Fatalf("spawn: %v", err)
		}
		inv.AddItem(it)
	}

	if err := store.Save(ctx, "chest", snapshot.Capture(inv)); err != nil {
		t.Fatalf("save: %v", err)
	}
	inv.GrowBy(1)
	if err := store.Save(ctx, "chest", snapshot.Capture(inv)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	snap, found, err := store.Load(ctx, "chest")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertEqual(t, "capacity", snap.Capacity, 3)

	restored, err := snap.Restore(catalog)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	testutil.AssertEqual(t, "restored capacity", restored.Capacity(), 3)
	testutil.AssertEqual(t, "restored arrows", restored.CountOf(*catalog.Get("arrow")), 3)
	for _, it := range inv.Items() {
		testutil.AssertEqual(t, "instance kept", restored.HasInstance(it), true)
	}
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	err := store.Save(ctx, "", &snapshot.Snapshot{})
	testutil.AssertErrorContains(t, err, "inventory name is required")

	err = store.Save(ctx, "broken", &snapshot.Snapshot{Capacity: 2})
	testutil.AssertErrorContains(t, err, "does not match")
}

func TestStore_CanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Load(ctx, "chest")
	if err == nil {
		t.Error("expected error for canceled context")
	}
	err = store.Save(ctx, "chest", &snapshot.Snapshot{})
	if err == nil {
		t.Error("expected error for canceled context")
	}
}
