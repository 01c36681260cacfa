package kvstore

import (
	"context"
	"sync"

	"github.com/google/btree"
)

type memoryEntry struct {
	key   string
	value string
}

// Memory keeps every key in an ordered btree. Nothing survives the process.
type Memory struct {
	mutex  *sync.RWMutex
	btree  *btree.BTreeG[memoryEntry]
	closed bool
}

func NewMemory() *Memory {
	return &Memory{
		mutex: &sync.RWMutex{},
		btree: btree.NewG(16, func(a, b memoryEntry) bool {
			return a.key < b.key
		}),
	}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	entry, ok := m.btree.Get(memoryEntry{key: key})
	return entry.value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.btree.ReplaceOrInsert(memoryEntry{key: key, value: value})
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.btree.Delete(memoryEntry{key: key})
	return nil
}

// Keys returns every stored key in ascending order.
func (m *Memory) Keys() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	keys := make([]string, 0, m.btree.Len())
	m.btree.Ascend(func(entry memoryEntry) bool {
		keys = append(keys, entry.key)
		return true
	})
	return keys
}

func (m *Memory) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	m.btree.Clear(false)
	return nil
}
