package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

// CreatorUpsertResolver writes partner payloads to the creator store.
//
// Only fields that survive coercion are written, so one malformed value
// leaves its column untouched instead of failing the row. When even that
// write fails for a handle that has no row yet, a placeholder with handle and
// display name is inserted. An existing row is never overwritten by the
// placeholder.
type CreatorUpsertResolver struct {
	store  driven.CreatorStore
	logger *zap.Logger
}

// NewCreatorUpsertResolver creates a resolver over a creator store.
func NewCreatorUpsertResolver(store driven.CreatorStore, logger *zap.Logger) *CreatorUpsertResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreatorUpsertResolver{store: store, logger: logger.Named("creator_upsert")}
}

// Resolve upserts the payload data for handle and returns the stored row.
func (r *CreatorUpsertResolver) Resolve(ctx context.Context, handle string, data map[string]any) (*domain.CreatorProfile, error) {
	record := domain.NewCreatorRecord(handle, data)
	if record.Handle == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := r.store.GetByHandle(ctx, record.Handle)
	switch {
	case err == nil:
		// Keyed by internal id so a renamed handle cannot redirect the write.
		if err := r.store.UpdateFields(ctx, existing.ID, record); err != nil {
			return nil, fmt.Errorf("update creator %s: %w", record.Handle, err)
		}
		return r.store.GetByID(ctx, existing.ID)
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("get creator %s: %w", record.Handle, err)
	}

	insertErr := r.store.Insert(ctx, record)
	if insertErr == nil {
		return r.store.GetByHandle(ctx, record.Handle)
	}

	r.logger.Warn("full creator insert failed, writing placeholder",
		zap.String("handle", record.Handle),
		zap.Error(insertErr),
	)
	if err := r.store.InsertMinimal(ctx, record.Handle, record.MinimalDisplayName()); err != nil {
		return nil, fmt.Errorf("insert creator placeholder %s: %w", record.Handle, errors.Join(insertErr, err))
	}
	return r.store.GetByHandle(ctx, record.Handle)
}
