package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

// Ensure LinkedAccountStore implements the interface.
var _ driven.LinkedAccountStore = (*LinkedAccountStore)(nil)

// linkedTokens is the encrypted content of secret_blob.
type linkedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LinkedAccountStore implements driven.LinkedAccountStore using PostgreSQL.
// Tokens are stored sealed in secret_blob, never in plain columns.
type LinkedAccountStore struct {
	db     *DB
	cipher *TokenCipher
}

// NewLinkedAccountStore creates a new PostgreSQL-backed linked account store.
func NewLinkedAccountStore(db *DB, cipher *TokenCipher) *LinkedAccountStore {
	return &LinkedAccountStore{db: db, cipher: cipher}
}

func tokenAAD(userID string, provider domain.ProviderType) string {
	return userID + ":" + string(provider)
}

// Upsert inserts the account or replaces the credentials of the existing
// (user_id, provider) row. Enrichment columns are left as they are. On
// return account.ID holds the id of the stored row.
func (s *LinkedAccountStore) Upsert(ctx context.Context, account *domain.LinkedAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = time.Now()
	}

	blob, err := s.cipher.Seal(linkedTokens{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
	}, tokenAAD(account.UserID, account.Provider))
	if err != nil {
		return fmt.Errorf("seal tokens: %w", err)
	}

	query := `
		INSERT INTO linked_accounts (
			id, user_id, provider, external_id, secret_blob, scope,
			expires_at, refresh_expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			secret_blob = EXCLUDED.secret_blob,
			scope = EXCLUDED.scope,
			expires_at = EXCLUDED.expires_at,
			refresh_expires_at = EXCLUDED.refresh_expires_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err = s.db.QueryRowContext(ctx, query,
		account.ID,
		account.UserID,
		string(account.Provider),
		account.ExternalID,
		blob,
		pq.Array(account.Scope),
		account.ExpiresAt,
		account.RefreshExpiresAt,
		account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("upsert linked account: %w", err)
	}
	return nil
}

// Get retrieves the account of a user for a provider.
func (s *LinkedAccountStore) Get(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccount, error) {
	query := `
		SELECT id, user_id, provider, external_id, secret_blob, scope,
			expires_at, refresh_expires_at, handle, display_name, avatar_url,
			follower_count, last_synced_at, created_at, updated_at
		FROM linked_accounts
		WHERE user_id = $1 AND provider = $2
	`

	var (
		account      domain.LinkedAccount
		providerName string
		blob         []byte
		scope        pq.StringArray
		handle       sql.NullString
		displayName  sql.NullString
		avatarURL    sql.NullString
		followers    sql.NullInt64
		lastSyncedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, userID, string(provider)).Scan(
		&account.ID,
		&account.UserID,
		&providerName,
		&account.ExternalID,
		&blob,
		&scope,
		&account.ExpiresAt,
		&account.RefreshExpiresAt,
		&handle,
		&displayName,
		&avatarURL,
		&followers,
		&lastSyncedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get linked account: %w", err)
	}

	var tokens linkedTokens
	if err := s.cipher.Open(blob, tokenAAD(account.UserID, domain.ProviderType(providerName)), &tokens); err != nil {
		return nil, fmt.Errorf("open tokens: %w", err)
	}

	account.Provider = domain.ProviderType(providerName)
	account.AccessToken = tokens.AccessToken
	account.RefreshToken = tokens.RefreshToken
	if len(scope) > 0 {
		account.Scope = []string(scope)
	}
	account.Handle = handle.String
	account.DisplayName = displayName.String
	account.AvatarURL = avatarURL.String
	account.FollowerCount = int64Ptr(followers)
	account.LastSyncedAt = timePtr(lastSyncedAt)

	return &account, nil
}

// UpdateProfile writes the enrichment columns of an existing account.
func (s *LinkedAccountStore) UpdateProfile(ctx context.Context, userID string, provider domain.ProviderType, profile *domain.LinkedProfile) error {
	query := `
		UPDATE linked_accounts SET
			handle = $3,
			display_name = $4,
			avatar_url = $5,
			follower_count = $6,
			last_synced_at = now(),
			updated_at = now()
		WHERE user_id = $1 AND provider = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		userID,
		string(provider),
		nullString(profile.Handle),
		nullString(profile.DisplayName),
		nullString(profile.AvatarURL),
		nullInt64(profile.FollowerCount),
	)
	if err != nil {
		return fmt.Errorf("update linked profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update linked profile: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
