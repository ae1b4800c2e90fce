package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kersley/attend/internal/log"
)

// FileStore keeps the snapshot in a single file under the data
// directory. This is the local analogue of the browser storage the web
// client uses.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store writing to the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot, creating the parent directory if needed.
func (f *FileStore) Save(s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	log.Debug(log.CatSnapshot, "Snapshot saved", "path", f.path, "answers", len(s.Answers))
	return nil
}

// Load reads and decodes the snapshot.
// Returns ErrNotFound when no file exists and ErrMalformed when the
// file cannot be decoded.
func (f *FileStore) Load() (Snapshot, error) {
	data, err := os.ReadFile(f.path) //nolint:gosec // G304: path is derived from the configured data dir
	if os.IsNotExist(err) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		log.Warn(log.CatSnapshot, "Discarding malformed snapshot", "path", f.path)
		return Snapshot{}, err
	}
	return s, nil
}

// Clear removes the snapshot file. Missing files are not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	log.Debug(log.CatSnapshot, "Snapshot cleared", "path", f.path)
	return nil
}
