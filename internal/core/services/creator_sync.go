package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// Ensure creatorSyncService implements CreatorSyncService
var _ driving.CreatorSyncService = (*creatorSyncService)(nil)

const (
	syncLockName       = "creator-sync"
	defaultSyncLockTTL = 15 * time.Minute
)

// CreatorSyncServiceConfig holds dependencies for the creator sync.
type CreatorSyncServiceConfig struct {
	Source driven.CreatorSource
	Store  driven.CreatorStore

	// Lock serializes batches across instances. Optional.
	Lock    driven.DistributedLock
	LockTTL time.Duration

	// DefaultHandles are synced when no handle is on file.
	DefaultHandles []string

	Logger *zap.Logger
}

type creatorSyncService struct {
	source         driven.CreatorSource
	store          driven.CreatorStore
	resolver       *CreatorUpsertResolver
	lock           driven.DistributedLock
	lockTTL        time.Duration
	defaultHandles []string
	logger         *zap.Logger
}

// NewCreatorSyncService creates a new creator sync service.
func NewCreatorSyncService(cfg CreatorSyncServiceConfig) driving.CreatorSyncService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultSyncLockTTL
	}
	return &creatorSyncService{
		source:         cfg.Source,
		store:          cfg.Store,
		resolver:       NewCreatorUpsertResolver(cfg.Store, logger),
		lock:           cfg.Lock,
		lockTTL:        lockTTL,
		defaultHandles: cfg.DefaultHandles,
		logger:         logger.Named("creator_sync"),
	}
}

// Sync syncs handle, or every known handle when it is empty. Handles are
// processed one at a time and a failing handle never stops the batch.
func (s *creatorSyncService) Sync(ctx context.Context, handle string) (*domain.SyncResult, error) {
	start := time.Now()

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, syncLockName, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrSyncInProgress
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), syncLockName); err != nil {
				s.logger.Warn("release sync lock", zap.Error(err))
			}
		}()
	}

	handles, err := s.resolveHandles(ctx, handle)
	if err != nil {
		return nil, err
	}

	s.logger.Info("starting creator sync", zap.Int("handles", len(handles)))

	result := domain.NewSyncResult()
	for _, h := range handles {
		if err := s.syncHandle(ctx, h); err != nil {
			s.logger.Warn("creator sync failed", zap.String("handle", h), zap.Error(err))
			result.RecordError(h, err)
			continue
		}
		result.RecordSuccess()
	}

	result.Success = true
	result.Duration = time.Since(start).Seconds()

	s.logger.Info("creator sync completed",
		zap.Int("synced", result.Synced),
		zap.Int("errors", result.ErrorCount),
		zap.Float64("duration_seconds", result.Duration),
	)
	return result, nil
}

func (s *creatorSyncService) syncHandle(ctx context.Context, handle string) error {
	payload, err := s.source.FetchCreator(ctx, handle)
	if err != nil {
		return fmt.Errorf("fetch creator: %w", err)
	}
	if payload == nil {
		return errors.New("partner returned no response")
	}
	if payload.Code != 0 {
		return fmt.Errorf("partner error %d: %s", payload.Code, payload.Message)
	}
	if payload.Data == nil {
		return errors.New("partner response has no data")
	}

	if _, err := s.resolver.Resolve(ctx, handle, payload.Data); err != nil {
		return err
	}
	return nil
}

// resolveHandles returns the normalized, de-duplicated handles to sync.
func (s *creatorSyncService) resolveHandles(ctx context.Context, handle string) ([]string, error) {
	if strings.TrimSpace(handle) != "" {
		h := domain.NormalizeHandle(handle)
		if h == "" {
			return nil, domain.ErrInvalidInput
		}
		return []string{h}, nil
	}

	known, err := s.store.ListHandles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list creator handles: %w", err)
	}
	handles := dedupeHandles(known)
	if len(handles) == 0 {
		s.logger.Info("no creators on file, using default handles")
		handles = dedupeHandles(s.defaultHandles)
	}
	return handles, nil
}

// GetCreator returns the stored profile for a handle
func (s *creatorSyncService) GetCreator(ctx context.Context, handle string) (*domain.CreatorProfile, error) {
	h := domain.NormalizeHandle(handle)
	if h == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.GetByHandle(ctx, h)
}

func dedupeHandles(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, h := range in {
		h = domain.NormalizeHandle(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
