package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
)

// InventoryConfig names an inventory to host and the capacity it starts with
// when no snapshot exists yet.
type InventoryConfig struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (c *InventoryConfig) validate() error {
	el := errors.NewErrorList()

	if err := storage.Identifier(c.Name).Validate(); err != nil {
		el.Add(fmt.Errorf("name: %w", err))
	}
	if c.Capacity < 0 {
		el.Add(fmt.Errorf("capacity must not be negative"))
	}

	return el.Err()
}
