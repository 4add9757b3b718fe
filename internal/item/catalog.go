package item

import (
	"fmt"
	"os"
	"sync"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
	"gopkg.in/yaml.v3"
)

// Catalog is the set of item kinds known to the process. It satisfies
// storage.Storer so kind references in snapshots can be resolved against it.
type Catalog struct {
	kinds map[string]*Kind

	mu sync.RWMutex
}

// NewCatalog builds a catalog from kinds keyed by id. Each kind's Id is set
// from its key.
func NewCatalog(kinds map[string]*Kind) *Catalog {
	c := &Catalog{kinds: make(map[string]*Kind, len(kinds))}
	for id, k := range kinds {
		k.Id = storage.Identifier(id)
		c.kinds[id] = k
	}
	return c
}

// Save validates and stores a kind in memory.
func (c *Catalog) Save(id string, k *Kind) error {
	if k == nil {
		return fmt.Errorf("kind %q is nil", id)
	}
	if err := k.Validate(); err != nil {
		return fmt.Errorf("validating kind %q: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k.Id = storage.Identifier(id)
	c.kinds[id] = k
	return nil
}

// Get returns the kind with the given id, or nil if it is not known.
func (c *Catalog) Get(id string) *Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.kinds[id]
}

func (c *Catalog) GetAll() map[string]*Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vals := make(map[string]*Kind, len(c.kinds))
	for id, k := range c.kinds {
		vals[id] = k
	}
	return vals
}

// Spawn creates a new item of the kind with the given id.
func (c *Catalog) Spawn(id string) (*Item, error) {
	k := c.Get(id)
	if k == nil {
		return nil, fmt.Errorf("kind %q not found", id)
	}
	return New(*k), nil
}

type catalogBundle struct {
	Kinds map[string]*Kind `yaml:"kinds"`
}

// LoadCatalogYAML reads a single YAML file holding every kind:
//
//	kinds:
//	  millbrook-arrow:
//	    name: Iron Arrow
//	    max_stack: 20
func LoadCatalogYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var bundle catalogBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("unmarshalling catalog: %w", err)
	}

	el := errors.NewErrorList()
	for id, k := range bundle.Kinds {
		if k == nil {
			el.Add(fmt.Errorf("kind %q is empty", id))
			continue
		}
		if err := k.Validate(); err != nil {
			el.Add(fmt.Errorf("kind %q: %w", id, err))
		}
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	return NewCatalog(bundle.Kinds), nil
}
