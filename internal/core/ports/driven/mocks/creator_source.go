package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

var _ driven.CreatorSource = (*MockCreatorSource)(nil)

// MockCreatorSource serves canned partner payloads per handle.
type MockCreatorSource struct {
	mu       sync.Mutex
	payloads map[string]*driven.CreatorPayload
	errs     map[string]error

	// Calls records every handle requested, in order.
	Calls []string
}

// NewMockCreatorSource creates a new MockCreatorSource
func NewMockCreatorSource() *MockCreatorSource {
	return &MockCreatorSource{
		payloads: make(map[string]*driven.CreatorPayload),
		errs:     make(map[string]error),
	}
}

// SetPayload sets the payload returned for a handle
func (m *MockCreatorSource) SetPayload(handle string, payload *driven.CreatorPayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[handle] = payload
}

// SetError makes the fetch for a handle fail
func (m *MockCreatorSource) SetError(handle string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[handle] = err
}

func (m *MockCreatorSource) FetchCreator(ctx context.Context, handle string) (*driven.CreatorPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, handle)
	if err, ok := m.errs[handle]; ok {
		return nil, err
	}
	if p, ok := m.payloads[handle]; ok {
		return p, nil
	}
	return &driven.CreatorPayload{Code: 40001, Message: "creator not found"}, nil
}

// CallCount returns how many times a handle was fetched
func (m *MockCreatorSource) CallCount(handle string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.Calls {
		if h == handle {
			n++
		}
	}
	return n
}
