package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory Collection used by tests and local development.
// It mirrors the Firestore adapter's semantics: merge on create, update
// fails on absent targets, FindByField returns a single match with no
// ordering guarantee among duplicates.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]interface{})}
}

func (m *Memory) Create(_ context.Context, id string, data map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	doc, ok := m.docs[id]
	if !ok {
		doc = make(map[string]interface{}, len(data))
		m.docs[id] = doc
	}
	for k, v := range data {
		doc[k] = v
	}
	return id, nil
}

func (m *Memory) Read(_ context.Context, id string) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (m *Memory) ReadAll(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Document
	for id, doc := range m.docs {
		docs = append(docs, Document{ID: id, Data: copyDoc(doc)})
	}
	return docs, nil
}

func (m *Memory) Update(_ context.Context, id string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return &Error{Op: "update", Collection: "memory", Err: errors.New("no such document")}
	}
	for k, v := range data {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, id)
	return nil
}

func (m *Memory) FindByField(_ context.Context, field string, value interface{}) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, doc := range m.docs {
		if v, ok := doc[field]; ok && v == value {
			return &Document{ID: id, Data: copyDoc(doc)}, nil
		}
	}
	return nil, ErrNotFound
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
