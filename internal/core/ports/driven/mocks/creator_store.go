package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

var _ driven.CreatorStore = (*MockCreatorStore)(nil)

// MockCreatorStore is an in-memory CreatorStore with failure injection.
type MockCreatorStore struct {
	mu       sync.RWMutex
	profiles map[string]*domain.CreatorProfile // id -> profile
	nextID   int

	InsertErr        error
	UpdateErr        error
	InsertMinimalErr error
	ListErr          error

	InsertCalls        int
	UpdateCalls        int
	InsertMinimalCalls int
}

// NewMockCreatorStore creates a new MockCreatorStore
func NewMockCreatorStore() *MockCreatorStore {
	return &MockCreatorStore{
		profiles: make(map[string]*domain.CreatorProfile),
	}
}

func (m *MockCreatorStore) findByHandle(handle string) *domain.CreatorProfile {
	for _, p := range m.profiles {
		if p.Handle == handle {
			return p
		}
	}
	return nil
}

func (m *MockCreatorStore) GetByHandle(ctx context.Context, handle string) (*domain.CreatorProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := m.findByHandle(handle)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockCreatorStore) GetByID(ctx context.Context, id string) (*domain.CreatorProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockCreatorStore) Insert(ctx context.Context, record *domain.CreatorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if m.findByHandle(record.Handle) != nil {
		return fmt.Errorf("insert creator: duplicate handle %q", record.Handle)
	}
	m.nextID++
	now := time.Now()
	p := &domain.CreatorProfile{
		ID:        fmt.Sprintf("creator-%d", m.nextID),
		Handle:    record.Handle,
		CreatedAt: now,
	}
	applyRecord(p, record, now)
	m.profiles[p.ID] = p
	return nil
}

func (m *MockCreatorStore) UpdateFields(ctx context.Context, id string, record *domain.CreatorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	p, ok := m.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	applyRecord(p, record, time.Now())
	return nil
}

func (m *MockCreatorStore) InsertMinimal(ctx context.Context, handle, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertMinimalCalls++
	if m.InsertMinimalErr != nil {
		return m.InsertMinimalErr
	}
	if m.findByHandle(handle) != nil {
		return nil
	}
	m.nextID++
	now := time.Now()
	name := displayName
	p := &domain.CreatorProfile{
		ID:          fmt.Sprintf("creator-%d", m.nextID),
		Handle:      handle,
		DisplayName: &name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *MockCreatorStore) ListHandles(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	handles := make([]string, 0, len(m.profiles))
	for _, p := range m.profiles {
		if p.Handle != "" {
			handles = append(handles, p.Handle)
		}
	}
	sort.Strings(handles)
	return handles, nil
}

// Seed stores a profile directly (for test setup).
func (m *MockCreatorStore) Seed(p *domain.CreatorProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		m.nextID++
		p.ID = fmt.Sprintf("creator-%d", m.nextID)
	}
	copied := *p
	m.profiles[p.ID] = &copied
}

// Count returns the number of stored profiles
func (m *MockCreatorStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

func applyRecord(p *domain.CreatorProfile, r *domain.CreatorRecord, now time.Time) {
	if r.DisplayName != nil {
		p.DisplayName = r.DisplayName
	}
	if r.Bio != nil {
		p.Bio = r.Bio
	}
	if r.Followers != nil {
		p.Followers = r.Followers
	}
	if r.Following != nil {
		p.Following = r.Following
	}
	if r.Likes != nil {
		p.Likes = r.Likes
	}
	if r.MedianViews != nil {
		p.MedianViews = r.MedianViews
	}
	if r.Price != nil {
		p.Price = r.Price
	}
	if r.Currency != nil {
		p.Currency = r.Currency
	}
	if r.ContentLabel != nil {
		p.ContentLabel = r.ContentLabel
	}
	if r.VideoCount != nil {
		p.VideoCount = r.VideoCount
	}
	if r.EngagementRate != nil {
		p.EngagementRate = r.EngagementRate
	}
	p.UpdatedAt = now
	p.LastSyncedAt = &now
}
