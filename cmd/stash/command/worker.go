package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service/service"
	"github.com/pixil98/go-stash/internal/driver"
	"github.com/pixil98/go-stash/internal/messaging"
	"github.com/pixil98/go-stash/internal/stash"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	catalog, err := cfg.Storage.Catalog.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	store, closeStore, err := cfg.Storage.Snapshots.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	// Open every configured inventory
	manager := stash.NewManager(store, catalog)
	for _, inv := range cfg.Inventories {
		if err := manager.Open(context.Background(), inv.Name, inv.Capacity); err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("opening inventory %s: %w", inv.Name, err)
		}
	}

	// Setup messaging
	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	messaging.NewEventBridge(nats).Attach(manager)
	messaging.NewCommandHandler(manager, messaging.WithMaxCapacity(cfg.maxCapacity())).Register(nats)

	// Setup the driver
	d := driver.NewDriver(
		[]driver.Manager{&hostedStash{manager: manager, closeStore: closeStore}},
		cfg.driverOpts()...,
	)

	return service.WorkerList{
		"driver": d,
		"nats":   nats,
	}, nil
}

// hostedStash ticks the manager and, on shutdown, saves it before releasing
// the snapshot store.
type hostedStash struct {
	manager    *stash.Manager
	closeStore func() error
}

func (h *hostedStash) Tick(ctx context.Context) error {
	return h.manager.Tick(ctx)
}

func (h *hostedStash) Flush(ctx context.Context) error {
	el := errors.NewErrorList()
	el.Add(h.manager.Close(ctx))
	el.Add(h.closeStore())
	return el.Err()
}
