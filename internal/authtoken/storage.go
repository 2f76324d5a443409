package authtoken

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage keeps key-value pairs in a single JSON file under the state
// directory. It is the durable backend for the one token value the client
// persists; everything else the core holds lives in memory.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(stateDir string) (*FileStorage, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{path: filepath.Join(stateDir, "storage.json")}, nil
}

func (f *FileStorage) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.readAll()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.readAll()
	if err != nil {
		return err
	}
	values[key] = value
	return f.writeAll(values)
}

func (f *FileStorage) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.readAll()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(values, key)
	}
	return f.writeAll(values)
}

func (f *FileStorage) readAll() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt state file is unrecoverable; start over rather than fail
		// every read until the user deletes it by hand.
		return map[string]string{}, nil
	}
	return values, nil
}

func (f *FileStorage) writeAll(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// MemoryStorage is an in-memory Storage, used by tests and as a fallback when
// no state directory is available.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}
