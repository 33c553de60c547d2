package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"hlfnet/internal/chaincode"
)

// NetworkState is what hlfnet remembers about the local network between
// invocations.
type NetworkState struct {
	Started   bool               `yaml:"started"`
	Chaincode chaincode.Identity `yaml:"chaincode"`
}

// Store loads and saves the network state.
type Store interface {
	Load() (NetworkState, bool, error)
	Save(NetworkState) error
}

// FileStore persists the state as YAML.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the stored state. The boolean is false when nothing has been
// saved yet.
func (s *FileStore) Load() (NetworkState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NetworkState{}, false, nil
		}
		return NetworkState{}, false, fmt.Errorf("failed to read state %s: %w", s.path, err)
	}

	var st NetworkState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return NetworkState{}, false, fmt.Errorf("failed to parse state %s: %w", s.path, err)
	}
	return st, true, nil
}

// Save writes st atomically.
func (s *FileStore) Save(st NetworkState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state: %w", err)
	}
	return nil
}

// MemoryStore keeps the state in memory. It backs the MCP server's
// long-running orchestrator in tests and one-shot library use.
type MemoryStore struct {
	mu    sync.RWMutex
	state *NetworkState
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (NetworkState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return NetworkState{}, false, nil
	}
	return *m.state, true, nil
}

func (m *MemoryStore) Save(st NetworkState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &st
	return nil
}
