package messaging

import (
	"context"
	"testing"

	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/snapshot"
	"github.com/pixil98/go-stash/internal/stash"
)

func newTestManager(t *testing.T, names ...string) *stash.Manager {
	t.Helper()

	store, err := snapshot.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening snapshot store: %v", err)
	}
	kinds := item.NewCatalog(map[string]*item.Kind{
		"arrow": {Name: "Arrow", MaxStack: 5},
		"stone": {Name: "Stone", MaxStack: 2},
	})

	m := stash.NewManager(store, kinds)
	for _, name := range names {
		if err := m.Open(context.Background(), name, 2); err != nil {
			t.Fatalf("opening %s: %v", name, err)
		}
	}
	return m
}
