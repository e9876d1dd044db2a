package store

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process backend for tests and --backend memory runs.
// Setting ReadErr/WriteErr makes the matching operations fail.
type MemoryBackend struct {
	mu    sync.Mutex
	slots map[string][]byte

	ReadErr  error
	WriteErr error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: map[string][]byte{}}
}

func (*MemoryBackend) Name() string { return BackendMemory }

func (m *MemoryBackend) Read(_ context.Context, ns string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	b, ok := m.slots[ns]
	if !ok {
		return nil, ErrSlotMissing
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryBackend) Write(_ context.Context, ns string, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.slots[ns] = append([]byte(nil), b...)
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	delete(m.slots, ns)
	return nil
}

// Has reports whether the slot exists.
func (m *MemoryBackend) Has(ns string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[ns]
	return ok
}

// Raw returns the stored payload, for tests that seed or inspect slots.
func (m *MemoryBackend) Raw(ns string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.slots[ns]
	return b, ok
}
