package archive

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

type memoryDoc struct {
	info Info
	body []byte
}

// Memory keeps documents in process memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]memoryDoc
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]memoryDoc), now: time.Now}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Put(_ context.Context, key string, body []byte, contentType string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.docs[key]; ok {
		return d.info, nil
	}
	info := Info{
		Key:         key,
		Size:        int64(len(body)),
		ContentType: contentType,
		StoredAt:    m.now().UTC(),
	}
	m.docs[key] = memoryDoc{info: info, body: bytes.Clone(body)}
	return info, nil
}

func (m *Memory) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	m.mu.RLock()
	d, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return Info{}, nil, ErrNotFound
	}
	return d.info, io.NopCloser(bytes.NewReader(d.body)), nil
}

func (m *Memory) Head(_ context.Context, key string) (Info, error) {
	m.mu.RLock()
	d, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return Info{}, ErrNotFound
	}
	return d.info, nil
}
