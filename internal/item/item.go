package item

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
)

// Kind describes what an item is. Items stack together only when their kinds
// compare equal, so every field takes part in stacking decisions.
// Kind IDs follow the asset identifier convention (e.g., "millbrook-arrow").
type Kind struct {
	// Id is filled from the asset identifier when the kind is loaded.
	Id storage.Identifier `json:"-" yaml:"-"`

	// Name is shown in listings (e.g., "Iron Arrow")
	Name string `json:"name" yaml:"name"`

	// MaxStack is how many units of this kind fit in a single slot
	MaxStack int `json:"max_stack" yaml:"max_stack"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (k *Kind) Validate() error {
	el := errors.NewErrorList()
	if k.Name == "" {
		el.Add(fmt.Errorf("kind name is required"))
	}
	if k.MaxStack < 1 {
		el.Add(fmt.Errorf("kind max_stack must be at least 1"))
	}
	return el.Err()
}

// Item is a single unit of some Kind. Items are immutable and shared by
// reference; the instance id distinguishes two units of the same kind.
type Item struct {
	instanceId string
	kind       Kind
}

// New creates a fresh item of the given kind with a new instance id.
func New(kind Kind) *Item {
	return &Item{
		instanceId: uuid.New().String(),
		kind:       kind,
	}
}

// Restore rebuilds an item whose instance id is already known, such as one
// read back from a snapshot.
func Restore(instanceId string, kind Kind) *Item {
	return &Item{
		instanceId: instanceId,
		kind:       kind,
	}
}

// InstanceId returns the unique id of this unit.
func (i *Item) InstanceId() string {
	return i.instanceId
}

// Kind returns the kind of this unit.
func (i *Item) Kind() Kind {
	return i.kind
}

func (i *Item) Name() string {
	return i.kind.Name
}

func (i *Item) MaxStack() int {
	return i.kind.MaxStack
}

// SameKind reports whether two items would stack together.
func (i *Item) SameKind(other *Item) bool {
	return other != nil && i.kind == other.kind
}

// SameInstance reports whether two items are the same unit.
func (i *Item) SameInstance(other *Item) bool {
	return other != nil && i.instanceId == other.instanceId
}

func (i *Item) String() string {
	return fmt.Sprintf("%s (%s)", i.kind.Name, i.instanceId)
}
