package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Collection names used by the application.
const (
	ColUsers       = "users"
	ColTextbooks   = "textbooks"
	ColAssignments = "assignments"
	ColSubmissions = "submissions"
)

var ErrNotFound = errors.New("record not found")

// Store is the document persistence collaborator: named collections of JSON
// records with generated ids. Implementations back it with a local sqlite
// file or a cloud postgres database; callers cannot tell which. A failed
// operation must leave stored state unchanged.
type Store interface {
	// GetAll returns every record in a collection, each with its "id" field set.
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	// QueryByField returns the records whose top-level field equals value.
	QueryByField(ctx context.Context, collection, field string, value any) ([]json.RawMessage, error)
	// Add stores record under a freshly generated id and returns that id.
	Add(ctx context.Context, collection string, record any) (string, error)
	// Update shallow-merges partial into an existing record.
	Update(ctx context.Context, collection, id string, partial map[string]any) error
	// Delete removes a record; deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// Decode unmarshals a raw record into out.
func Decode(raw json.RawMessage, out any) error {
	return json.Unmarshal(raw, out)
}

// DecodeAll unmarshals a result set into a typed slice.
func DecodeAll[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, r := range raws {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func jsonEqual(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// toDoc marshals a record into its map form with the given id injected.
func toDoc(record any, id string) (map[string]any, error) {
	buf, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("record must be a JSON object: %w", err)
	}
	doc["id"] = id
	return doc, nil
}

// memoryStore iterates each collection in insertion order, matching the SQL
// store's created_at ordering, so callers that break ties by row position
// behave the same on either backend.
type memoryStore struct {
	mu    sync.RWMutex
	cols  map[string]map[string]map[string]any // collection -> id -> doc
	order map[string][]string                  // collection -> ids, oldest first
}

// NewInMemoryStore returns a map-backed Store for tests and ephemeral runs.
func NewInMemoryStore() Store {
	return &memoryStore{
		cols:  map[string]map[string]map[string]any{},
		order: map[string][]string{},
	}
}

func (m *memoryStore) col(name string) map[string]map[string]any {
	c, ok := m.cols[name]
	if !ok {
		c = map[string]map[string]any{}
		m.cols[name] = c
	}
	return c
}

func (m *memoryStore) GetAll(_ context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []json.RawMessage
	for _, id := range m.order[collection] {
		buf, err := json.Marshal(m.cols[collection][id])
		if err != nil {
			return nil, err
		}
		out = append(out, buf)
	}
	return out, nil
}

func (m *memoryStore) QueryByField(_ context.Context, collection, field string, value any) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []json.RawMessage
	for _, id := range m.order[collection] {
		doc := m.cols[collection][id]
		if !jsonEqual(doc[field], value) {
			continue
		}
		buf, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, buf)
	}
	return out, nil
}

func (m *memoryStore) Add(_ context.Context, collection string, record any) (string, error) {
	id := uuid.NewString()
	doc, err := toDoc(record, id)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.col(collection)[id] = doc
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

func (m *memoryStore) Update(_ context.Context, collection, id string, partial map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.cols[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range partial {
		doc[k] = v
	}
	doc["id"] = id
	return nil
}

func (m *memoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cols[collection][id]; !ok {
		return nil
	}
	delete(m.cols[collection], id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
