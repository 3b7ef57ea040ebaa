package store

import "context"

// MemoryKV is an in-memory backend used in tests. FailSet and FailGet,
// when non-nil, are returned from Set and Get to exercise storage failure
// paths.
type MemoryKV struct {
	entries map[string][]byte
	FailSet error
	FailGet error
	Sets    int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string][]byte)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.FailGet != nil {
		return nil, false, m.FailGet
	}
	raw, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	if m.FailSet != nil {
		return m.FailSet
	}
	m.Sets++
	cp := make([]byte, len(value))
	copy(cp, value)
	m.entries[key] = cp
	return nil
}

func (m *MemoryKV) Clear(ctx context.Context) error {
	m.entries = make(map[string][]byte)
	return nil
}
