package inventory

import "slices"

// observers is an ordered list of callbacks. Callbacks run synchronously in
// registration order. A callback that mutates the inventory or slot that
// notified it sees the state part way through the operation.
type observers[T any] struct {
	next    int
	entries []observer[T]
}

type observer[T any] struct {
	id int
	fn func(T)
}

// add registers fn and returns a function that removes it again.
func (o *observers[T]) add(fn func(T)) func() {
	o.next++
	id := o.next
	o.entries = append(o.entries, observer[T]{id: id, fn: fn})
	return func() { o.remove(id) }
}

func (o *observers[T]) remove(id int) {
	o.entries = slices.DeleteFunc(o.entries, func(e observer[T]) bool {
		return e.id == id
	})
}

func (o *observers[T]) notify(v T) {
	// Iterate a copy so callbacks may unsubscribe while being notified.
	for _, e := range slices.Clone(o.entries) {
		e.fn(v)
	}
}
