package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/snapshot"
	"github.com/pixil98/go-stash/internal/snapshot/sqlite"
	"github.com/pixil98/go-stash/internal/storage"
)

type StorageConfig struct {
	Catalog   CatalogConfig  `json:"catalog"`
	Snapshots SnapshotConfig `json:"snapshots"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Catalog.validate())
	el.Add(c.Snapshots.validate())
	return el.Err()
}

// CatalogConfig points at either a directory of JSON kind assets or a single
// YAML bundle (.yaml or .yml).
type CatalogConfig struct {
	Path string `json:"path"`
}

func (c *CatalogConfig) validate() error {
	if c.Path == "" {
		return fmt.Errorf("catalog: path is required")
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("catalog: invalid path %q: %w", c.Path, err)
	}
	return nil
}

func (c *CatalogConfig) isBundle() bool {
	switch filepath.Ext(c.Path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (c *CatalogConfig) BuildCatalog() (*item.Catalog, error) {
	if c.isBundle() {
		return item.LoadCatalogYAML(c.Path)
	}

	kinds, err := storage.NewFileStore[*item.Kind](c.Path)
	if err != nil {
		return nil, err
	}
	return item.NewCatalog(kinds.GetAll()), nil
}

type SnapshotDriver string

const (
	SnapshotDriverFile   SnapshotDriver = "file"
	SnapshotDriverSqlite SnapshotDriver = "sqlite"
)

type SnapshotConfig struct {
	Driver SnapshotDriver `json:"driver"`
	Path   string         `json:"path"`
}

func (c *SnapshotConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case SnapshotDriverFile, SnapshotDriverSqlite:
	default:
		el.Add(fmt.Errorf("snapshots: unknown driver %q", c.Driver))
	}
	if c.Path == "" {
		el.Add(fmt.Errorf("snapshots: path is required"))
	}

	return el.Err()
}

// BuildStore opens the snapshot store. The returned close function releases
// it and is never nil.
func (c *SnapshotConfig) BuildStore() (snapshot.Store, func() error, error) {
	switch c.Driver {
	case SnapshotDriverFile:
		s, err := snapshot.NewFileStore(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case SnapshotDriverSqlite:
		s, err := sqlite.Open(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown snapshot driver %q", c.Driver)
	}
}
