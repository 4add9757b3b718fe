package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength   = time.Second * 30
	DefaultFlushTimeout = time.Second * 10
)

// Manager is ticked on every driver interval.
type Manager interface {
	Tick(context.Context) error
}

// Flusher is implemented by managers that have work to finish when the
// driver stops.
type Flusher interface {
	Flush(context.Context) error
}

// Driver ticks its managers on a fixed interval until its context is done.
type Driver struct {
	tickLength   time.Duration
	flushTimeout time.Duration
	managers     []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength:   DefaultTickLength,
		flushTimeout: DefaultFlushTimeout,
		managers:     managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return d.flush(ctx)
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

// flush gives each Flusher a fresh deadline, since ctx is already done.
func (d *Driver) flush(ctx context.Context) error {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.flushTimeout)
	defer cancel()

	var firstErr error
	for _, m := range d.managers {
		f, ok := m.(Flusher)
		if !ok {
			continue
		}
		if err := f.Flush(fctx); err != nil {
			slog.ErrorContext(fctx, "flushing on shutdown", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
