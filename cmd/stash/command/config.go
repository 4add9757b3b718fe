package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/driver"
	"github.com/pixil98/go-stash/internal/messaging"
)

type Config struct {
	TickInterval string            `json:"tick_interval"`
	FlushTimeout string            `json:"flush_timeout"`
	MaxCapacity  int               `json:"max_capacity"`
	Storage      StorageConfig     `json:"storage"`
	Nats         NatsConfig        `json:"nats"`
	Inventories  []InventoryConfig `json:"inventories"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < time.Second {
		el.Add(fmt.Errorf("tick_interval must be at least 1 second"))
	}

	if c.FlushTimeout != "" {
		d, err := time.ParseDuration(c.FlushTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing flush_timeout: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("flush_timeout must be positive"))
		}
	}
	if c.MaxCapacity < 0 {
		el.Add(fmt.Errorf("max_capacity must not be negative"))
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())

	seen := make(map[string]bool, len(c.Inventories))
	for i, inv := range c.Inventories {
		if err := inv.validate(); err != nil {
			el.Add(fmt.Errorf("inventory %d: %w", i, err))
		}
		if inv.Capacity > c.maxCapacity() {
			el.Add(fmt.Errorf("inventory %d: capacity exceeds max_capacity %d", i, c.maxCapacity()))
		}
		if seen[inv.Name] {
			el.Add(fmt.Errorf("inventory %d: duplicate name %q", i, inv.Name))
		}
		seen[inv.Name] = true
	}

	return el.Err()
}

// maxCapacity is the configured limit, or the messaging default when unset.
func (c *Config) maxCapacity() int {
	if c.MaxCapacity == 0 {
		return messaging.DefaultMaxCapacity
	}
	return c.MaxCapacity
}

func (c *Config) driverOpts() []driver.DriverOpt {
	opts := []driver.DriverOpt{driver.WithTickLength(c.tickLength())}
	if d, err := time.ParseDuration(c.FlushTimeout); err == nil {
		opts = append(opts, driver.WithFlushTimeout(d))
	}
	return opts
}

func (c *Config) tickLength() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0
	}
	return d
}
