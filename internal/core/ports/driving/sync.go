package driving

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// CreatorSyncService pulls creator statistics from the partner API.
type CreatorSyncService interface {
	// Sync syncs one handle, or every known handle when handle is empty.
	// Returns domain.ErrSyncInProgress when another batch holds the lock.
	Sync(ctx context.Context, handle string) (*domain.SyncResult, error)

	// GetCreator returns the stored profile for a handle
	GetCreator(ctx context.Context, handle string) (*domain.CreatorProfile, error)
}

// LinkedAccountService reads linked accounts
type LinkedAccountService interface {
	// GetLinkedAccount returns the caller's account for a provider (no secrets)
	GetLinkedAccount(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccountSummary, error)
}
