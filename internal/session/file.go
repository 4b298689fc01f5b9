package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const stateFileName = "session.json"

type stateFile struct {
	ConversationID string `json:"conversation_id"`
}

// FileStore keeps the conversation id in a JSON file under a per-user state
// directory, so the session survives restarts but stays scoped to one OS
// profile.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. An empty dir falls back to
// ~/.shoplite-widget.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".shoplite-widget")
	}
	return &FileStore{dir: dir}
}

// Load reads the persisted id. A missing or unreadable state file is treated
// as an empty store, never an error.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, stateFileName))
	if err != nil {
		return "", nil
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt state is indistinguishable from no state.
		return "", nil
	}
	return state.ConversationID, nil
}

// Save persists the id, overwriting any prior value.
func (s *FileStore) Save(id string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(stateFile{ConversationID: id})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, stateFileName), data, 0600)
}

// Clear removes the state file. Clearing an already-empty store is a no-op.
func (s *FileStore) Clear() error {
	err := os.Remove(filepath.Join(s.dir, stateFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
