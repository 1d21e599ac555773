package session

import (
	"context"
	"sync"
)

type memoryEntry struct {
	state      State
	hasState   bool
	email      string
	hasEmail   bool
	customerID int64
	hasCust    bool
}

// MemoryStore is an in-memory Store implementation for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*memoryEntry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int64]*memoryEntry)}
}

// GetState returns the stored conversation state for a chat.
func (m *MemoryStore) GetState(_ context.Context, chatID int64) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[chatID]; ok && e.hasState {
		return e.state, nil
	}
	return "", ErrNotFound
}

// SetState persists the conversation state for a chat.
func (m *MemoryStore) SetState(_ context.Context, chatID int64, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(chatID)
	e.state = st
	e.hasState = true
	return nil
}

// SetEmail stores the pending checkout email for a chat.
func (m *MemoryStore) SetEmail(_ context.Context, chatID int64, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(chatID)
	e.email = email
	e.hasEmail = true
	return nil
}

// Email returns the pending checkout email for a chat.
func (m *MemoryStore) Email(_ context.Context, chatID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[chatID]; ok && e.hasEmail {
		return e.email, nil
	}
	return "", ErrNotFound
}

// SetCustomerID stores the CMS customer id for a chat.
func (m *MemoryStore) SetCustomerID(_ context.Context, chatID int64, customerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(chatID)
	e.customerID = customerID
	e.hasCust = true
	return nil
}

// CustomerID returns the stored CMS customer id for a chat.
func (m *MemoryStore) CustomerID(_ context.Context, chatID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[chatID]; ok && e.hasCust {
		return e.customerID, nil
	}
	return 0, ErrNotFound
}

func (m *MemoryStore) entry(chatID int64) *memoryEntry {
	e, ok := m.entries[chatID]
	if !ok {
		e = &memoryEntry{}
		m.entries[chatID] = e
	}
	return e
}
