package snapshot

import (
	"context"
	"fmt"

	"github.com/pixil98/go-stash/internal/storage"
)

// FileStore keeps each snapshot as a JSON asset named after the inventory.
type FileStore struct {
	files *storage.FileStore[*Snapshot]
}

// NewFileStore opens (creating if needed) a snapshot directory.
func NewFileStore(path string) (*FileStore, error) {
	files, err := storage.NewFileStore[*Snapshot](path, storage.WithCreate())
	if err != nil {
		return nil, fmt.Errorf("opening snapshot files: %w", err)
	}
	return &FileStore{files: files}, nil
}

func (f *FileStore) Load(ctx context.Context, name string) (*Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	snap, ok := f.files.Lookup(name)
	return snap, ok, nil
}

func (f *FileStore) Save(ctx context.Context, name string, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.files.Save(name, snap)
}
