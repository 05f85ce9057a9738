package storage

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
)

// Memory is an in-process medium. Handles sharing one Memory behave like
// tabs sharing one browser profile.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	subs   map[int]memorySub
	nextID int
	wg     conc.WaitGroup
}

type memorySub struct {
	key string
	ch  chan Event
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string][]byte),
		subs: make(map[int]memorySub),
	}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.broadcastLocked(key)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok {
		return nil
	}
	delete(m.data, key)
	m.broadcastLocked(key)
	return nil
}

func (m *Memory) broadcastLocked(key string) {
	for _, s := range m.subs {
		if s.key == key {
			notify(s.ch, key)
		}
	}
}

func (m *Memory) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan Event, eventBuffer)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = memorySub{key: key, ch: ch}
	m.mu.Unlock()

	m.wg.Go(func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, id)
		close(ch)
		m.mu.Unlock()
	})
	return ch, nil
}

// Close waits for watches to finish; their contexts must already be done.
func (m *Memory) Close() error {
	m.wg.Wait()
	return nil
}
