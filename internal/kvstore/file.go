package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/tphakala/daylight-go/internal/errors"
	"github.com/tphakala/daylight-go/internal/logging"
)

// FileStore keeps all keys in a single JSON document on disk, rewritten
// atomically on every Set. Suitable for the small handful of keys this
// application persists.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// NewFileStore opens the store at path, loading any existing document. A
// corrupt or unreadable document is discarded and logged, not surfaced.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(err).
				Component("kvstore").
				Category(errors.CategoryFileIO).
				Context("operation", "create-store-dir").
				Build()
		}
	}

	fs := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		// Missing file is a fresh store
		return fs, nil
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		logging.Warn("Discarding corrupt key/value store", "path", path, "error", err)
		fs.data = make(map[string]string)
	}
	if fs.data == nil {
		// A literal null document decodes without error but leaves the map
		// nil; treat it as an empty store.
		fs.data = make(map[string]string)
	}
	return fs, nil
}

// Get returns the value for key.
func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	value, ok := fs.data[key]
	return value, ok, nil
}

// Set replaces the value for key and rewrites the document.
func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data[key] = value
	return fs.flushLocked()
}

// Delete removes key and rewrites the document.
func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.data[key]; !ok {
		return nil
	}
	delete(fs.data, key)
	return fs.flushLocked()
}

// Close is a no-op for the file store.
func (fs *FileStore) Close() error {
	return nil
}

// flushLocked writes the whole document through a temp file and rename so a
// crash mid-write never leaves a truncated store behind.
func (fs *FileStore) flushLocked() error {
	raw, err := json.Marshal(fs.data)
	if err != nil {
		return errors.New(err).
			Component("kvstore").
			Category(errors.CategoryStorage).
			Context("operation", "marshal-store").
			Build()
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.New(err).
			Component("kvstore").
			Category(errors.CategoryFileIO).
			Context("operation", "write-store-temp").
			Build()
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.New(err).
			Component("kvstore").
			Category(errors.CategoryFileIO).
			Context("operation", "rename-store").
			Build()
	}
	return nil
}
