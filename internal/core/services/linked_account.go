package services

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// Ensure linkedAccountService implements LinkedAccountService
var _ driving.LinkedAccountService = (*linkedAccountService)(nil)

type linkedAccountService struct {
	store driven.LinkedAccountStore
}

// NewLinkedAccountService creates a new LinkedAccountService
func NewLinkedAccountService(store driven.LinkedAccountStore) driving.LinkedAccountService {
	return &linkedAccountService{store: store}
}

func (s *linkedAccountService) GetLinkedAccount(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccountSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	account, err := s.store.Get(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	return account.ToSummary(), nil
}
