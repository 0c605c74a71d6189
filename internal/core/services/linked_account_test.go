package services

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven/mocks"
)

func TestLinkedAccountService_GetLinkedAccount(t *testing.T) {
	store := mocks.NewMockLinkedAccountStore()
	svc := NewLinkedAccountService(store)

	_ = store.Upsert(context.Background(), &domain.LinkedAccount{
		UserID:      "user-1",
		Provider:    domain.ProviderTikTok,
		ExternalID:  "open-1",
		AccessToken: "act.secret",
		ExpiresAt:   time.Now().Add(time.Hour),
	})

	summary, err := svc.GetLinkedAccount(context.Background(), "user-1", domain.ProviderTikTok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ExternalID != "open-1" {
		t.Errorf("expected open-1, got %s", summary.ExternalID)
	}

	_, err = svc.GetLinkedAccount(context.Background(), "user-2", domain.ProviderTikTok)
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.GetLinkedAccount(context.Background(), "", domain.ProviderTikTok)
	if err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
