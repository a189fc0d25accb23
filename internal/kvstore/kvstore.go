// Package kvstore implements the persisted key/value store backing the
// geocoding caches and the remembered locations. Values are whole-document
// strings replaced on every write; a missing or unreadable value is always
// treated as absence, never as a fatal condition.
package kvstore

// Store is the string-keyed, string-valued persistence interface. A single
// store instance must not be shared between writers of the same key.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases any resources held by the store.
	Close() error
}
