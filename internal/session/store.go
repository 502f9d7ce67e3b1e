// ABOUTME: Token persistence for the session manager
// ABOUTME: Stores the bearer token in the config directory across CLI invocations

package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the bearer token across application restarts
type TokenStore interface {
	// Load returns the persisted token, or "" if none is stored
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileStore persists the token as a single file in the config directory
type FileStore struct {
	configDir string
}

// NewFileStore creates a FileStore rooted at the given config directory
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

func (fs *FileStore) tokenFile() string {
	return filepath.Join(fs.configDir, "token")
}

// Load reads the persisted token from disk
func (fs *FileStore) Load() (string, error) {
	data, err := os.ReadFile(fs.tokenFile())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token to disk, creating the config directory if needed.
// The token is a credential, so the file is owner-readable only.
func (fs *FileStore) Save(token string) error {
	if err := os.MkdirAll(fs.configDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(fs.tokenFile(), []byte(token), 0600)
}

// Clear removes the persisted token. A missing file is not an error.
func (fs *FileStore) Clear() error {
	err := os.Remove(fs.tokenFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemStore is an in-memory TokenStore for tests
type MemStore struct {
	mu    sync.Mutex
	token string
}

// NewMemStore creates an empty in-memory token store
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the stored token
func (ms *MemStore) Load() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.token, nil
}

// Save stores the token
func (ms *MemStore) Save(token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = token
	return nil
}

// Clear removes the stored token
func (ms *MemStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = ""
	return nil
}
