package studio

import (
	"encoding/json"
	"fmt"
	"sync"
)

// HistoryKey is the storage key holding the JSON array of generated room ids.
const HistoryKey = "rooms"

// KVStore is a string key/value store. GetItem returns "" for a missing key.
type KVStore interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
}

// MemoryStore is an in-process KVStore.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (m *MemoryStore) GetItem(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key], nil
}

func (m *MemoryStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// History returns the stored room ids, oldest first.
func History(store KVStore) ([]string, error) {
	raw, err := store.GetItem(HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if raw == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// AppendHistory adds id to the end of the history list. Duplicates are kept.
func AppendHistory(store KVStore, id string) error {
	ids, err := History(store)
	if err != nil {
		return err
	}
	ids = append(ids, id)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := store.SetItem(HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
