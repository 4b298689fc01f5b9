// Package session persists the conversation identifier across process
// restarts, the widget's analogue of browser localStorage.
package session

// Store owns the durable conversation id. Absence is a valid value: Load
// returns "" when nothing is persisted, and Clear on an empty store is a
// no-op.
type Store interface {
	Load() (string, error)
	Save(id string) error
	Clear() error
}

// MemoryStore implements Store in-process, suitable for tests and embeds
// that do not want durable state.
type MemoryStore struct {
	id string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored id, "" when absent.
func (s *MemoryStore) Load() (string, error) {
	return s.id, nil
}

// Save overwrites any prior id.
func (s *MemoryStore) Save(id string) error {
	s.id = id
	return nil
}

// Clear removes the stored id.
func (s *MemoryStore) Clear() error {
	s.id = ""
	return nil
}
