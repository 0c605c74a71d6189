package driven

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// CreatorStore persists creator external profiles, unique by handle.
type CreatorStore interface {
	// GetByHandle returns domain.ErrNotFound if no row has the handle.
	GetByHandle(ctx context.Context, handle string) (*domain.CreatorProfile, error)

	// GetByID returns domain.ErrNotFound if no row has the id.
	GetByID(ctx context.Context, id string) (*domain.CreatorProfile, error)

	// Insert creates a row with every known field of the record.
	Insert(ctx context.Context, record *domain.CreatorRecord) error

	// UpdateFields writes the known fields of the record to the row with the
	// given internal id in one statement. Unknown fields are left untouched.
	UpdateFields(ctx context.Context, id string, record *domain.CreatorRecord) error

	// InsertMinimal creates a placeholder row with only handle and display
	// name. It never modifies an existing row.
	InsertMinimal(ctx context.Context, handle, displayName string) error

	// ListHandles returns the distinct non-empty handles on file.
	ListHandles(ctx context.Context) ([]string, error)
}
