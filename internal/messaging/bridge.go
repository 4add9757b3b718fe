package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/stash"
)

// Publisher sends raw messages to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SlotState is the published view of one slot.
type SlotState struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind,omitempty"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

// ChangeEvent is published whenever a hosted inventory changes.
type ChangeEvent struct {
	Inventory string      `json:"inventory"`
	Capacity  int         `json:"capacity"`
	Slots     []SlotState `json:"slots"`
}

// ChangedSubject is the subject change events for the named inventory are
// published on.
func ChangedSubject(name string) string {
	return fmt.Sprintf("stash.%s.changed", name)
}

func NewChangeEvent(name string, inv *inventory.Inventory) ChangeEvent {
	ev := ChangeEvent{
		Inventory: name,
		Capacity:  inv.Capacity(),
		Slots:     make([]SlotState, 0, inv.Capacity()),
	}
	for _, s := range inv.Slots() {
		st := SlotState{Index: s.Index(), Quantity: s.Quantity()}
		if k, ok := s.Kind(); ok {
			st.Kind = k.Id.String()
			st.Name = k.Name
		}
		ev.Slots = append(ev.Slots, st)
	}
	return ev
}

// EventBridge forwards stash change notifications to a Publisher.
type EventBridge struct {
	pub Publisher
}

func NewEventBridge(pub Publisher) *EventBridge {
	return &EventBridge{pub: pub}
}

// Attach starts forwarding changes from m. The returned function stops it.
func (b *EventBridge) Attach(m *stash.Manager) (detach func()) {
	return m.OnChanged(b.publish)
}

func (b *EventBridge) publish(name string, inv *inventory.Inventory) {
	data, err := json.Marshal(NewChangeEvent(name, inv))
	if err != nil {
		slog.Error("marshalling change event", "inventory", name, "error", err)
		return
	}

	subject := ChangedSubject(name)
	if err := b.pub.Publish(subject, data); err != nil {
		slog.Warn("publishing change event", "subject", subject, "error", err)
	}
}
