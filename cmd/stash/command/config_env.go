package command

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are read from the environment and win over the config file.
type envOverrides struct {
	TickInterval   string `env:"STASH_TICK_INTERVAL"`
	FlushTimeout   string `env:"STASH_FLUSH_TIMEOUT"`
	CatalogPath    string `env:"STASH_CATALOG_PATH"`
	SnapshotDriver string `env:"STASH_SNAPSHOT_DRIVER"`
	SnapshotPath   string `env:"STASH_SNAPSHOT_PATH"`
	NatsHost       string `env:"STASH_NATS_HOST"`
	NatsPort       int    `env:"STASH_NATS_PORT"`
}

// ApplyEnv overlays any STASH_* environment variables onto the config.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setIf(&c.TickInterval, o.TickInterval)
	setIf(&c.FlushTimeout, o.FlushTimeout)
	setIf(&c.Storage.Catalog.Path, o.CatalogPath)
	setIf(&c.Storage.Snapshots.Driver, o.SnapshotDriver)
	setIf(&c.Storage.Snapshots.Path, o.SnapshotPath)
	setIf(&c.Nats.Host, o.NatsHost)
	if o.NatsPort != 0 {
		c.Nats.Port = o.NatsPort
	}
	return nil
}

func setIf[T ~string](dst *T, v string) {
	if v != "" {
		*dst = T(v)
	}
}
