package inventory

import (
	"slices"

	"github.com/pixil98/go-stash/internal/item"
)

// ContentChange is delivered to content observers of a Slot. Occupied is
// false when the change carries no item.
type ContentChange struct {
	Item     *item.Item
	Occupied bool
}

func contentOf(it *item.Item, ok bool) ContentChange {
	return ContentChange{Item: it, Occupied: ok}
}

// Slot is a single stacking unit. It holds zero or more items that all share
// one kind, up to that kind's MaxStack. The last item added is the slot's
// representative.
type Slot struct {
	// Non-owning back-reference; the inventory owns the slot.
	inv   *Inventory
	index int

	items []*item.Item

	contentObs  observers[ContentChange]
	quantityObs observers[int]
}

func newSlot(inv *Inventory, index int) *Slot {
	return &Slot{inv: inv, index: index}
}

// Inventory returns the inventory that owns this slot.
func (s *Slot) Inventory() *Inventory {
	return s.inv
}

// Index returns the position of the slot within its inventory.
func (s *Slot) Index() int {
	return s.index
}

// Quantity returns the number of items in the slot.
func (s *Slot) Quantity() int {
	return len(s.items)
}

// Top returns the most recently added item, or false if the slot is empty.
func (s *Slot) Top() (*item.Item, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Kind returns the kind occupying the slot, or false if the slot is empty.
func (s *Slot) Kind() (item.Kind, bool) {
	top, ok := s.Top()
	if !ok {
		return item.Kind{}, false
	}
	return top.Kind(), true
}

// Items returns a copy of the slot contents in stacking order.
func (s *Slot) Items() []*item.Item {
	return slices.Clone(s.items)
}

// RoomFor returns how many more items of kind fit in the slot. A slot
// occupied by a different kind has no room.
func (s *Slot) RoomFor(kind item.Kind) int {
	occupying, ok := s.Kind()
	if !ok {
		return max(kind.MaxStack, 0)
	}
	if occupying != kind {
		return 0
	}
	return max(kind.MaxStack-len(s.items), 0)
}

// Add appends it to the slot if there is room for its kind.
func (s *Slot) Add(it *item.Item) bool {
	if it == nil || s.RoomFor(it.Kind()) <= 0 {
		return false
	}

	s.items = append(s.items, it)

	s.quantityObs.notify(1)
	s.contentObs.notify(contentOf(s.Top()))
	return true
}

// AddAll adds items in order and stops at the first one that does not fit.
// Items added before the failure stay in the slot.
func (s *Slot) AddAll(items []*item.Item) bool {
	for _, it := range items {
		if !s.Add(it) {
			return false
		}
	}
	return true
}

// RemoveCount removes up to n of the most recently added items and returns
// them, most recent first. Observers are notified even when nothing is
// removed.
func (s *Slot) RemoveCount(n int) []*item.Item {
	before := contentOf(s.Top())

	n = min(max(n, 0), len(s.items))
	removed := make([]*item.Item, 0, n)
	for range n {
		last := len(s.items) - 1
		removed = append(removed, s.items[last])
		s.items[last] = nil
		s.items = s.items[:last]
	}

	s.contentObs.notify(before)
	s.quantityObs.notify(-len(removed))
	return removed
}

// RemoveInstance removes the entry with the same instance id as it. If the
// id somehow appears more than once, only the last occurrence is removed.
func (s *Slot) RemoveInstance(it *item.Item) {
	if it == nil {
		return
	}

	idx := -1
	for i, held := range s.items {
		if held.SameInstance(it) {
			idx = i
		}
	}
	if idx == -1 {
		return
	}

	s.items = slices.Delete(s.items, idx, idx+1)

	s.contentObs.notify(contentOf(it, true))
	s.quantityObs.notify(-1)
}

// SetContents replaces everything in the slot. The new contents must be a
// single kind within its stack limit; otherwise the slot is left untouched
// and false is returned. Observers are notified on every successful call,
// even when the contents did not change.
func (s *Slot) SetContents(items []*item.Item) bool {
	if !stackable(items) {
		return false
	}
	s.setContents(slices.Clone(items))
	return true
}

func (s *Slot) setContents(items []*item.Item) {
	delta := len(items) - len(s.items)
	s.items = items

	s.quantityObs.notify(delta)
	s.contentObs.notify(contentOf(s.Top()))
}

// HasInstance reports whether exactly one entry carries the instance id of it.
func (s *Slot) HasInstance(it *item.Item) bool {
	if it == nil {
		return false
	}

	matches := 0
	for _, held := range s.items {
		if held.SameInstance(it) {
			matches++
		}
	}
	return matches == 1
}

// Clear empties the slot. Observers receive the item and count held before
// the clear.
func (s *Slot) Clear() {
	before := contentOf(s.Top())
	count := len(s.items)

	clear(s.items)
	s.items = s.items[:0]

	s.quantityObs.notify(-count)
	s.contentObs.notify(before)
}

// ForceNotify re-sends the current content to observers without changing
// anything.
func (s *Slot) ForceNotify() {
	s.contentObs.notify(contentOf(s.Top()))
}

// OnContentChanged registers fn to receive content changes. The returned
// function unsubscribes it.
func (s *Slot) OnContentChanged(fn func(ContentChange)) (unsubscribe func()) {
	return s.contentObs.add(fn)
}

// OnQuantityChanged registers fn to receive signed quantity deltas. The
// returned function unsubscribes it.
func (s *Slot) OnQuantityChanged(fn func(delta int)) (unsubscribe func()) {
	return s.quantityObs.add(fn)
}

// stackable reports whether items could share one slot.
func stackable(items []*item.Item) bool {
	if len(items) == 0 {
		return true
	}
	first := items[0]
	if first == nil || len(items) > first.MaxStack() {
		return false
	}
	for _, it := range items[1:] {
		if !first.SameKind(it) {
			return false
		}
	}
	return true
}
