package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		TickInterval: "30s",
		Storage: StorageConfig{
			Catalog:   CatalogConfig{Path: dir},
			Snapshots: SnapshotConfig{Driver: SnapshotDriverFile, Path: filepath.Join(dir, "snapshots")},
		},
		Inventories: []InventoryConfig{
			{Name: "pack", Capacity: 10},
			{Name: "chest", Capacity: 40},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		modify func(c *Config)
		expErr string
	}{
		"valid": {},
		"bad tick interval": {
			modify: func(c *Config) { c.TickInterval = "soon" },
			expErr: "parsing tick_interval",
		},
		"tick interval too short": {
			modify: func(c *Config) { c.TickInterval = "10ms" },
			expErr: "tick_interval must be at least 1 second",
		},
		"bad flush timeout": {
			modify: func(c *Config) { c.FlushTimeout = "eventually" },
			expErr: "parsing flush_timeout",
		},
		"zero flush timeout": {
			modify: func(c *Config) { c.FlushTimeout = "0s" },
			expErr: "flush_timeout must be positive",
		},
		"negative max capacity": {
			modify: func(c *Config) { c.MaxCapacity = -1 },
			expErr: "max_capacity must not be negative",
		},
		"inventory over max capacity": {
			modify: func(c *Config) { c.MaxCapacity = 20 },
			expErr: "inventory 1: capacity exceeds max_capacity 20",
		},
		"inventory over default max capacity": {
			modify: func(c *Config) { c.Inventories[0].Capacity = 5000 },
			expErr: "inventory 0: capacity exceeds max_capacity 1024",
		},
		"missing catalog path": {
			modify: func(c *Config) { c.Storage.Catalog.Path = "" },
			expErr: "catalog: path is required",
		},
		"catalog path does not exist": {
			modify: func(c *Config) { c.Storage.Catalog.Path = "/does/not/exist" },
			expErr: "catalog: invalid path",
		},
		"unknown snapshot driver": {
			modify: func(c *Config) { c.Storage.Snapshots.Driver = "postgres" },
			expErr: `unknown driver "postgres"`,
		},
		"missing snapshot path": {
			modify: func(c *Config) { c.Storage.Snapshots.Path = "" },
			expErr: "snapshots: path is required",
		},
		"bad nats timeout": {
			modify: func(c *Config) { c.Nats.StartTimeout = "later" },
			expErr: "parsing start_timeout",
		},
		"bad nats port": {
			modify: func(c *Config) { c.Nats.Port = 70000 },
			expErr: "port must be between",
		},
		"bad inventory name": {
			modify: func(c *Config) { c.Inventories[0].Name = "my pack" },
			expErr: "inventory 0: name",
		},
		"negative capacity": {
			modify: func(c *Config) { c.Inventories[1].Capacity = -1 },
			expErr: "capacity must not be negative",
		},
		"duplicate inventory": {
			modify: func(c *Config) { c.Inventories[1].Name = "pack" },
			expErr: `duplicate name "pack"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := validConfig(t)
			if tt.modify != nil {
				tt.modify(c)
			}

			err := c.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("STASH_TICK_INTERVAL", "5s")
	t.Setenv("STASH_FLUSH_TIMEOUT", "3s")
	t.Setenv("STASH_SNAPSHOT_DRIVER", "sqlite")
	t.Setenv("STASH_SNAPSHOT_PATH", "/var/lib/stash/stash.db")
	t.Setenv("STASH_NATS_PORT", "4333")

	c := &Config{
		TickInterval: "30s",
		Storage: StorageConfig{
			Catalog:   CatalogConfig{Path: "kinds.yaml"},
			Snapshots: SnapshotConfig{Driver: SnapshotDriverFile, Path: "snapshots"},
		},
		Nats: NatsConfig{Host: "0.0.0.0"},
	}

	if err := c.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "tick_interval", c.TickInterval, "5s")
	testutil.AssertEqual(t, "flush_timeout", c.FlushTimeout, "3s")
	testutil.AssertEqual(t, "catalog", c.Storage.Catalog.Path, "kinds.yaml")
	testutil.AssertEqual(t, "driver", c.Storage.Snapshots.Driver, SnapshotDriverSqlite)
	testutil.AssertEqual(t, "snapshot path", c.Storage.Snapshots.Path, "/var/lib/stash/stash.db")
	testutil.AssertEqual(t, "nats host", c.Nats.Host, "0.0.0.0")
	testutil.AssertEqual(t, "nats port", c.Nats.Port, 4333)
}

func TestConfig_ApplyEnvBadValue(t *testing.T) {
	t.Setenv("STASH_NATS_PORT", "lots")

	c := &Config{}
	testutil.AssertErrorContains(t, c.ApplyEnv(), "parse env")
}

func TestCatalogConfig_BuildCatalog(t *testing.T) {
	tests := map[string]struct {
		files  map[string]string
		path   string
		expIds []string
		expErr string
	}{
		"json assets": {
			files: map[string]string{
				"arrow.json": `{"version":1,"id":"arrow","spec":{"name":"Arrow","max_stack":20}}`,
			},
			expIds: []string{"arrow"},
		},
		"yaml bundle": {
			files: map[string]string{
				"kinds.yaml": "kinds:\n  arrow:\n    name: Arrow\n    max_stack: 20\n",
			},
			path:   "kinds.yaml",
			expIds: []string{"arrow"},
		},
		"invalid yaml kind": {
			files: map[string]string{
				"kinds.yml": "kinds:\n  arrow:\n    name: Arrow\n    max_stack: 0\n",
			},
			path:   "kinds.yml",
			expErr: "max_stack must be at least 1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
					t.Fatalf("writing %s: %v", file, err)
				}
			}

			c := CatalogConfig{Path: filepath.Join(dir, tt.path)}
			catalog, err := c.BuildCatalog()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, id := range tt.expIds {
				if catalog.Get(id) == nil {
					t.Errorf("expected kind %q in catalog", id)
				}
			}
		})
	}
}

func TestSnapshotConfig_BuildStore(t *testing.T) {
	for _, driver := range []SnapshotDriver{SnapshotDriverFile, SnapshotDriverSqlite} {
		t.Run(string(driver), func(t *testing.T) {
			c := SnapshotConfig{Driver: driver, Path: filepath.Join(t.TempDir(), "snaps")}

			store, closeStore, err := c.BuildStore()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store == nil {
				t.Fatalf("expected a store")
			}
			if err := closeStore(); err != nil {
				t.Errorf("closing: %v", err)
			}
		})
	}
}

func TestConfig_DriverOpts(t *testing.T) {
	tests := map[string]struct {
		flushTimeout string
		expOpts      int
	}{
		"tick only":          {expOpts: 1},
		"with flush timeout": {flushTimeout: "5s", expOpts: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := &Config{TickInterval: "30s", FlushTimeout: tt.flushTimeout}
			testutil.AssertEqual(t, "opts", len(c.driverOpts()), tt.expOpts)
		})
	}
}
