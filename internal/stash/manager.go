// Package stash hosts named inventories for the service. Inventories are not
// safe for concurrent use, so every access goes through the Manager's lock.
package stash

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/snapshot"
	"github.com/pixil98/go-stash/internal/storage"
)

// ChangeFunc is called, with the Manager lock held, after a hosted inventory
// changes. It must not call back into the Manager.
type ChangeFunc func(name string, inv *inventory.Inventory)

type hosted struct {
	inv   *inventory.Inventory
	dirty bool
	unsub func()
}

// Manager owns a set of named inventories, tracks which ones changed since
// they were last saved, and saves them on Tick.
type Manager struct {
	store snapshot.Store
	kinds storage.Storer[*item.Kind]

	mu      sync.Mutex
	hosted  map[string]*hosted
	nextSub int
	subs    map[int]ChangeFunc
	subIds  []int
}

func NewManager(store snapshot.Store, kinds storage.Storer[*item.Kind]) *Manager {
	return &Manager{
		store:  store,
		kinds:  kinds,
		hosted: make(map[string]*hosted),
		subs:   make(map[int]ChangeFunc),
	}
}

// Open loads the named inventory from the snapshot store, or creates it with
// capacity empty slots if there is no snapshot yet.
func (m *Manager) Open(ctx context.Context, name string, capacity int) error {
	if err := storage.Identifier(name).Validate(); err != nil {
		return fmt.Errorf("inventory name %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.hosted[name]; ok {
		return ErrInventoryExists
	}

	snap, found, err := m.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}

	h := &hosted{}
	if found {
		h.inv, err = snap.Restore(m.kinds)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", name, err)
		}
		slog.InfoContext(ctx, "inventory restored", "name", name, "capacity", h.inv.Capacity())
	} else {
		h.inv = inventory.New(capacity)
		h.dirty = true
		slog.InfoContext(ctx, "inventory created", "name", name, "capacity", capacity)
	}

	h.unsub = h.inv.OnChanged(func(inv *inventory.Inventory) {
		h.dirty = true
		m.notify(name, inv)
	})
	m.hosted[name] = h
	return nil
}

// OnChanged registers fn for changes to any hosted inventory. The returned
// function unsubscribes it.
func (m *Manager) OnChanged(fn ChangeFunc) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subs[id] = fn
	m.subIds = append(m.subIds, id)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
		m.subIds = slices.DeleteFunc(m.subIds, func(i int) bool { return i == id })
	}
}

// notify must be called with the lock held.
func (m *Manager) notify(name string, inv *inventory.Inventory) {
	for _, id := range m.subIds {
		m.subs[id](name, inv)
	}
}

// Names returns the names of all hosted inventories, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.hosted))
	for name := range m.hosted {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Do runs fn against the named inventory while holding the lock. fn must not
// keep the inventory after it returns.
func (m *Manager) Do(name string, fn func(*inventory.Inventory) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.hosted[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrInventoryNotFound)
	}
	return fn(h.inv)
}

// Add spawns count items of the kind and adds them to the named inventory.
// Only as many as fit are spawned. It returns how many were placed.
func (m *Manager) Add(name, kindId string, count int) (int, error) {
	k := m.kinds.Get(kindId)
	if k == nil {
		return 0, fmt.Errorf("%s: %w", kindId, ErrKindNotFound)
	}

	added := 0
	err := m.Do(name, func(inv *inventory.Inventory) error {
		items := make([]*item.Item, max(min(count, inv.TotalRoomFor(*k)), 0))
		for i := range items {
			items[i] = item.New(*k)
		}

		before := inv.CountOf(*k)
		inv.AddItems(items)
		added = inv.CountOf(*k) - before
		return nil
	})
	return added, err
}

// Remove takes up to count items of the kind from the first slot holding it.
func (m *Manager) Remove(name, kindId string, count int) (int, error) {
	k := m.kinds.Get(kindId)
	if k == nil {
		return 0, fmt.Errorf("%s: %w", kindId, ErrKindNotFound)
	}

	removed := 0
	err := m.Do(name, func(inv *inventory.Inventory) error {
		removed = inv.RemoveItemsByKind(*k, count)
		return nil
	})
	return removed, err
}

// Move merges or swaps between two slots, which may be in different
// inventories.
func (m *Manager) Move(fromName string, fromSlot int, toName string, toSlot int, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, err := m.slot(fromName, fromSlot)
	if err != nil {
		return err
	}
	to, err := m.slot(toName, toSlot)
	if err != nil {
		return err
	}

	inventory.MergeOrSwap(from, to, count)
	return nil
}

func (m *Manager) slot(name string, index int) (*inventory.Slot, error) {
	h, ok := m.hosted[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrInventoryNotFound)
	}
	s, ok := h.inv.Slot(index)
	if !ok {
		return nil, fmt.Errorf("%s slot %d: %w", name, index, ErrSlotNotFound)
	}
	return s, nil
}

// Tick saves every inventory that changed since its last save. Save failures
// are logged and retried on the next tick.
func (m *Manager) Tick(ctx context.Context) error {
	if err := m.Flush(ctx); err != nil {
		slog.ErrorContext(ctx, "saving inventories", "error", err)
	}
	return nil
}

// Flush saves every changed inventory and reports all failures.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := errors.NewErrorList()
	for name, h := range m.hosted {
		if !h.dirty {
			continue
		}
		if err := m.store.Save(ctx, name, snapshot.Capture(h.inv)); err != nil {
			el.Add(fmt.Errorf("saving %s: %w", name, err))
			continue
		}
		h.dirty = false
		slog.DebugContext(ctx, "inventory saved", "name", name)
	}
	return el.Err()
}

// Close saves outstanding changes and stops hosting every inventory.
func (m *Manager) Close(ctx context.Context) error {
	err := m.Flush(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	for name, h := range m.hosted {
		h.unsub()
		delete(m.hosted, name)
	}
	return err
}
