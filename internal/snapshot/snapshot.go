// Package snapshot captures inventories as plain data and rebuilds them.
package snapshot

import (
	"context"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
)

// Snapshot is the stored form of an inventory: its capacity and, per slot,
// the held items in stacking order.
type Snapshot struct {
	Capacity int       `json:"capacity"`
	Slots    [][]Entry `json:"slots"`
}

// Entry is one stored item unit.
type Entry struct {
	InstanceId string                              `json:"instance_id"`
	Kind       storage.SmartIdentifier[*item.Kind] `json:"kind"`
}

// Store loads and saves snapshots by inventory name.
type Store interface {
	Load(ctx context.Context, name string) (*Snapshot, bool, error)
	Save(ctx context.Context, name string, snap *Snapshot) error
}

// Capture records the current contents of inv.
func Capture(inv *inventory.Inventory) *Snapshot {
	snap := &Snapshot{
		Capacity: inv.Capacity(),
		Slots:    make([][]Entry, inv.Capacity()),
	}
	for i, s := range inv.Slots() {
		entries := make([]Entry, 0, s.Quantity())
		for _, it := range s.Items() {
			k := it.Kind()
			entries = append(entries, Entry{
				InstanceId: it.InstanceId(),
				Kind:       storage.NewResolvedSmartIdentifier(k.Id.String(), &k),
			})
		}
		snap.Slots[i] = entries
	}
	return snap
}

// Validate satisfies storage.ValidatingSpec
func (s *Snapshot) Validate() error {
	el := errors.NewErrorList()
	if s.Capacity < 0 {
		el.Add(fmt.Errorf("capacity must not be negative"))
	}
	if len(s.Slots) != s.Capacity {
		el.Add(fmt.Errorf("capacity %d does not match %d slots", s.Capacity, len(s.Slots)))
	}
	seen := make(map[string]bool)
	for i, entries := range s.Slots {
		for j, e := range entries {
			if e.InstanceId == "" {
				el.Add(fmt.Errorf("slot %d entry %d: instance_id is required", i, j))
			} else if seen[e.InstanceId] {
				el.Add(fmt.Errorf("slot %d entry %d: duplicate instance_id %q", i, j, e.InstanceId))
			}
			seen[e.InstanceId] = true
			if err := e.Kind.Validate(); err != nil {
				el.Add(fmt.Errorf("slot %d entry %d: %w", i, j, err))
			}
		}
	}
	return el.Err()
}

// Restore builds a new inventory from the snapshot, resolving kinds against
// kinds. Every slot is bound to the returned inventory.
func (s *Snapshot) Restore(kinds storage.Storer[*item.Kind]) (*inventory.Inventory, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	inv := inventory.New(s.Capacity)
	for i, entries := range s.Slots {
		items := make([]*item.Item, 0, len(entries))
		for j := range entries {
			e := &entries[j]
			if err := e.Kind.Resolve(kinds); err != nil {
				return nil, fmt.Errorf("slot %d: %w", i, err)
			}
			items = append(items, item.Restore(e.InstanceId, *e.Kind.Value()))
		}

		slot, _ := inv.Slot(i)
		if !slot.SetContents(items) {
			return nil, fmt.Errorf("slot %d: contents do not fit in one stack", i)
		}
	}
	return inv, nil
}
