package token

import "sync"

// MemoryBackend is an in-process Backend. It does not survive a restart.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]string
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		slots: make(map[string]string),
	}
}

// NewMemoryStore returns a Store backed by a fresh MemoryBackend.
func NewMemoryStore() *SlotStore {
	return New(NewMemoryBackend())
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *MemoryBackend) Put(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.slots[k] = v
	}
	return nil
}

func (m *MemoryBackend) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.slots, k)
	}
	return nil
}
