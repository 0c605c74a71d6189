package driven

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// LinkedAccountStore persists linked external accounts.
type LinkedAccountStore interface {
	// Upsert inserts or updates the account for (UserID, Provider).
	// Tokens, scope and expiries are replaced; enrichment columns are kept.
	Upsert(ctx context.Context, account *domain.LinkedAccount) error

	// Get retrieves the account of a user for a provider.
	// Returns domain.ErrNotFound if the user has not linked that provider.
	Get(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccount, error)

	// UpdateProfile writes profile enrichment fields for (userID, provider).
	UpdateProfile(ctx context.Context, userID string, provider domain.ProviderType, profile *domain.LinkedProfile) error
}
