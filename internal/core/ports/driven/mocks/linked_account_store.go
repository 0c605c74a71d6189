package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

var _ driven.LinkedAccountStore = (*MockLinkedAccountStore)(nil)

// MockLinkedAccountStore is an in-memory LinkedAccountStore keyed by user and provider.
type MockLinkedAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.LinkedAccount

	UpsertErr        error
	UpdateProfileErr error

	UpsertCalls        int
	UpdateProfileCalls int
}

// NewMockLinkedAccountStore creates a new MockLinkedAccountStore
func NewMockLinkedAccountStore() *MockLinkedAccountStore {
	return &MockLinkedAccountStore{
		accounts: make(map[string]*domain.LinkedAccount),
	}
}

func accountKey(userID string, provider domain.ProviderType) string {
	return userID + ":" + string(provider)
}

func (m *MockLinkedAccountStore) Upsert(ctx context.Context, account *domain.LinkedAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	key := accountKey(account.UserID, account.Provider)
	stored := *account
	if existing, ok := m.accounts[key]; ok {
		stored.ID = existing.ID
		stored.Handle = existing.Handle
		stored.DisplayName = existing.DisplayName
		stored.AvatarURL = existing.AvatarURL
		stored.FollowerCount = existing.FollowerCount
		stored.CreatedAt = existing.CreatedAt
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	m.accounts[key] = &stored
	account.ID = stored.ID
	return nil
}

func (m *MockLinkedAccountStore) Get(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[accountKey(userID, provider)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockLinkedAccountStore) UpdateProfile(ctx context.Context, userID string, provider domain.ProviderType, profile *domain.LinkedProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProfileCalls++
	if m.UpdateProfileErr != nil {
		return m.UpdateProfileErr
	}
	account, ok := m.accounts[accountKey(userID, provider)]
	if !ok {
		return domain.ErrNotFound
	}
	account.Handle = profile.Handle
	account.DisplayName = profile.DisplayName
	account.AvatarURL = profile.AvatarURL
	account.FollowerCount = profile.FollowerCount
	return nil
}

// Count returns the number of stored accounts
func (m *MockLinkedAccountStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}
