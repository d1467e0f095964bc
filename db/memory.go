package db

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store, used by tests and dry runs
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

// View runs fn against the current data
func (m *Memory) View(fn func(tx Txn) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(&memoryTxn{data: m.data, readOnly: true})
}

// Update runs fn against a copy of the data and keeps the copy when fn succeeds
func (m *Memory) Update(fn func(tx Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		staged[k] = v
	}

	if err := fn(&memoryTxn{data: staged}); err != nil {
		return err
	}

	m.data = staged
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

type memoryTxn struct {
	data     map[string][]byte
	readOnly bool
}

func (t *memoryTxn) Get(key []byte) ([]byte, error) {
	v, ok := t.data[string(key)]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", string(key), ErrNotFound)
	}

	return append([]byte(nil), v...), nil
}

func (t *memoryTxn) Set(key []byte, value []byte) error {
	if t.readOnly {
		return fmt.Errorf("cannot set key %s in a read-only transaction", string(key))
	}

	t.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (t *memoryTxn) Delete(key []byte) error {
	if t.readOnly {
		return fmt.Errorf("cannot delete key %s in a read-only transaction", string(key))
	}

	delete(t.data, string(key))
	return nil
}

func (t *memoryTxn) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	var keys []string
	for k := range t.data {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), t.data[k]); err != nil {
			return err
		}
	}

	return nil
}
