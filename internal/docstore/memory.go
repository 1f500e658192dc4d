package docstore

import (
	"context"
	"sync"

	"hisab/internal/core"
)

// Memory is an in-process store. It is the default backend for single-process
// deployments and the test double for everything that consumes a Store.
type Memory struct {
	mu     sync.Mutex
	doc    *core.Document
	subs   map[int]func(core.Document)
	nextID int
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{subs: make(map[int]func(core.Document))}
}

// NewMemorySeeded returns a store whose document already exists with the
// given contents.
func NewMemorySeeded(doc core.Document) *Memory {
	m := NewMemory()
	normalized := doc.Normalized()
	m.doc = &normalized
	return m
}

// Subscribe implements Store. The initial snapshot is delivered synchronously
// before Subscribe returns; a missing document is created with default
// contents exactly once.
func (m *Memory) Subscribe(_ context.Context, onChange func(core.Document), _ func(error)) (cancel func()) {
	m.mu.Lock()
	if m.doc == nil {
		created := core.DefaultDocument()
		m.doc = &created
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = onChange
	snapshot := m.doc.Clone()
	m.mu.Unlock()

	onChange(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Replace implements Store. Every live subscriber observes the new document.
func (m *Memory) Replace(_ context.Context, doc core.Document) error {
	normalized := doc.Normalized().Clone()

	m.mu.Lock()
	m.doc = &normalized
	listeners := make([]func(core.Document), 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(normalized.Clone())
	}
	return nil
}

// Document returns a copy of the current document, or the default if none
// was created yet. Intended for tests and the exporter.
func (m *Memory) Document() core.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return core.DefaultDocument()
	}
	return m.doc.Clone()
}
