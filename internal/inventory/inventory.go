package inventory

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-stash/internal/item"
)

// Inventory is an ordered, fixed-size set of slots. The size only changes
// through GrowBy and ShrinkBy.
//
// Inventories are not safe for concurrent use. Callers must serialise access,
// and change observers must not mutate the inventory that notified them.
type Inventory struct {
	capacity int
	slots    []*Slot

	changed observers[*Inventory]
}

// New creates an inventory with capacity empty slots.
func New(capacity int) *Inventory {
	inv := &Inventory{}
	inv.appendSlots(max(capacity, 0))
	return inv
}

// Capacity returns the number of slots.
func (inv *Inventory) Capacity() int {
	return inv.capacity
}

// Slots returns the slots in index order.
func (inv *Inventory) Slots() []*Slot {
	out := make([]*Slot, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// Slot returns the slot at index i.
func (inv *Inventory) Slot(i int) (*Slot, bool) {
	if i < 0 || i >= len(inv.slots) {
		return nil, false
	}
	return inv.slots[i], true
}

// Items returns every item held, in slot order then stacking order.
func (inv *Inventory) Items() []*item.Item {
	var items []*item.Item
	for _, s := range inv.slots {
		items = append(items, s.items...)
	}
	return items
}

// OnChanged registers fn to be called after any change to the inventory.
// The returned function unsubscribes it.
func (inv *Inventory) OnChanged(fn func(*Inventory)) (unsubscribe func()) {
	return inv.changed.add(fn)
}

func (inv *Inventory) notify() {
	inv.changed.notify(inv)
}

// IsEmpty reports whether no slot holds anything.
func (inv *Inventory) IsEmpty() bool {
	for _, s := range inv.slots {
		if s.Quantity() > 0 {
			return false
		}
	}
	return true
}

// CanShrinkBy reports whether the last n slots are all empty. Values of n
// outside 1..Capacity are never allowed.
func (inv *Inventory) CanShrinkBy(n int) bool {
	if n <= 0 || n > len(inv.slots) {
		return false
	}
	for _, s := range inv.slots[len(inv.slots)-n:] {
		if _, ok := s.Kind(); ok {
			return false
		}
	}
	return true
}

// ShrinkBy drops the last n slots if they are all empty.
func (inv *Inventory) ShrinkBy(n int) bool {
	if !inv.CanShrinkBy(n) {
		return false
	}

	keep := len(inv.slots) - n
	clear(inv.slots[keep:])
	inv.slots = inv.slots[:keep]
	inv.capacity = len(inv.slots)

	inv.notify()
	return true
}

// GrowBy appends n empty slots.
func (inv *Inventory) GrowBy(n int) {
	if n <= 0 {
		return
	}
	inv.appendSlots(n)
	inv.notify()
}

func (inv *Inventory) appendSlots(n int) {
	for range n {
		inv.slots = append(inv.slots, newSlot(inv, len(inv.slots)))
	}
	inv.capacity = len(inv.slots)
}

// TotalRoomFor returns the room for kind summed across every slot.
func (inv *Inventory) TotalRoomFor(kind item.Kind) int {
	room := 0
	for _, s := range inv.slots {
		room += s.RoomFor(kind)
	}
	return room
}

// CountOf returns how many items of kind the inventory holds.
func (inv *Inventory) CountOf(kind item.Kind) int {
	count := 0
	for _, s := range inv.slots {
		if k, ok := s.Kind(); ok && k == kind {
			count += s.Quantity()
		}
	}
	return count
}

// AddItem places it in the first slot already holding its kind with room
// to spare, or failing that the first empty slot. It does not look for the
// fullest matching stack.
func (inv *Inventory) AddItem(it *item.Item) bool {
	if it == nil {
		return false
	}

	kind := it.Kind()
	if inv.TotalRoomFor(kind) <= 0 {
		return false
	}

	for _, s := range inv.slots {
		if k, ok := s.Kind(); ok && k == kind && s.RoomFor(kind) > 0 {
			return inv.place(s, it)
		}
	}
	for _, s := range inv.slots {
		if _, ok := s.Kind(); !ok {
			return inv.place(s, it)
		}
	}
	return false
}

func (inv *Inventory) place(s *Slot, it *item.Item) bool {
	if !s.Add(it) {
		return false
	}
	inv.notify()
	return true
}

// AddItems adds every item if each one has room when checked on its own.
// Room is not re-checked as items are placed, so a batch holding several
// units of a kind that barely fits can report success while some units are
// left out. Observers are notified once at the end whatever the outcome.
func (inv *Inventory) AddItems(items []*item.Item) bool {
	ok := true
	for _, it := range items {
		if it == nil || inv.TotalRoomFor(it.Kind()) == 0 {
			ok = false
			break
		}
	}

	if ok {
		for _, it := range items {
			inv.AddItem(it)
		}
	}

	inv.notify()
	return ok
}

// RemoveItemsByKind removes up to count items from the first slot holding
// kind. Other slots holding the same kind are left alone. Returns how many
// items were removed.
func (inv *Inventory) RemoveItemsByKind(kind item.Kind, count int) int {
	removed := 0
	for _, s := range inv.slots {
		if k, ok := s.Kind(); ok && k == kind {
			removed = len(s.RemoveCount(count))
			break
		}
	}

	inv.notify()
	return removed
}

// RemoveInstance removes it from every slot that holds it.
func (inv *Inventory) RemoveInstance(it *item.Item) {
	for _, s := range inv.slots {
		if s.HasInstance(it) {
			s.RemoveInstance(it)
			inv.notify()
		}
	}
}

// HasInstance reports whether any slot holds it.
func (inv *Inventory) HasInstance(it *item.Item) bool {
	for _, s := range inv.slots {
		if s.HasInstance(it) {
			return true
		}
	}
	return false
}

// CopyFrom replaces the contents of every slot with the contents of the
// matching slot in src. Nothing happens unless both inventories have the
// same capacity. Items are shared, not cloned, so afterwards both
// inventories reference the same instances.
func (inv *Inventory) CopyFrom(src *Inventory) {
	if src == nil || src == inv || len(src.slots) != len(inv.slots) {
		return
	}

	for i, s := range inv.slots {
		s.Clear()
		s.AddAll(src.slots[i].Items())
	}

	inv.notify()
}

// Describe returns one line per slot naming the kind it holds. It is meant
// for logs and debugging, not for storage.
func (inv *Inventory) Describe() string {
	var sb strings.Builder
	for i, s := range inv.slots {
		name := "<empty>"
		if top, ok := s.Top(); ok {
			name = top.Name()
		}
		fmt.Fprintf(&sb, "slot %d: %s\n", i, name)
	}
	return sb.String()
}

// MergeOrSwap moves items from one slot to another. When both slots hold the
// same kind and to has room, up to count items are stacked onto to. In every
// other case, including an empty from, the full contents of the two slots
// are exchanged and count is ignored. The slots may belong to different
// inventories; each affected inventory is notified once.
func MergeOrSwap(from, to *Slot, count int) {
	if from == nil || to == nil || from == to {
		return
	}

	fromKind, fromOk := from.Kind()
	toKind, toOk := to.Kind()

	if fromOk && toOk && fromKind == toKind && to.RoomFor(fromKind) > 0 {
		takes := min(max(count, 0), to.RoomFor(fromKind))
		to.AddAll(from.RemoveCount(takes))
	} else {
		fromItems, toItems := from.items, to.items
		to.setContents(fromItems)
		from.setContents(toItems)
	}

	if from.inv != nil {
		from.inv.notify()
	}
	if to.inv != nil && to.inv != from.inv {
		to.inv.notify()
	}
}
