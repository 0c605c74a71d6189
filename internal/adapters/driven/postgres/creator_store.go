package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

// Ensure CreatorStore implements the interface.
var _ driven.CreatorStore = (*CreatorStore)(nil)

const creatorColumns = `id, creator_handle_name, display_name, bio, follower_count,
	following_count, likes_count, median_views, price, currency, content_label,
	video_count, engagement_rate, last_synced_at, created_at, updated_at`

// CreatorStore implements driven.CreatorStore using PostgreSQL.
type CreatorStore struct {
	db *DB
}

// NewCreatorStore creates a new PostgreSQL-backed creator store.
func NewCreatorStore(db *DB) *CreatorStore {
	return &CreatorStore{db: db}
}

// knownFields returns the column/value pairs of the non-nil record fields,
// in a fixed column order.
func knownFields(r *domain.CreatorRecord) ([]string, []any) {
	var cols []string
	var vals []any
	text := func(col string, v *string) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}
	count := func(col string, v *int64) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}

	text("display_name", r.DisplayName)
	text("bio", r.Bio)
	count("follower_count", r.Followers)
	count("following_count", r.Following)
	count("likes_count", r.Likes)
	count("median_views", r.MedianViews)
	count("price", r.Price)
	text("currency", r.Currency)
	text("content_label", r.ContentLabel)
	count("video_count", r.VideoCount)
	if r.EngagementRate != nil {
		cols = append(cols, "engagement_rate")
		vals = append(vals, *r.EngagementRate)
	}
	return cols, vals
}

// GetByHandle retrieves a creator by handle.
func (s *CreatorStore) GetByHandle(ctx context.Context, handle string) (*domain.CreatorProfile, error) {
	query := `SELECT ` + creatorColumns + ` FROM creator_external_profiles WHERE creator_handle_name = $1`
	return scanCreator(s.db.QueryRowContext(ctx, query, handle))
}

// GetByID retrieves a creator by internal id.
func (s *CreatorStore) GetByID(ctx context.Context, id string) (*domain.CreatorProfile, error) {
	query := `SELECT ` + creatorColumns + ` FROM creator_external_profiles WHERE id = $1`
	return scanCreator(s.db.QueryRowContext(ctx, query, id))
}

// Insert creates a row holding every known field of the record.
func (s *CreatorStore) Insert(ctx context.Context, record *domain.CreatorRecord) error {
	cols, vals := knownFields(record)
	cols = append([]string{"id", "creator_handle_name"}, cols...)
	vals = append([]any{uuid.NewString(), record.Handle}, vals...)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := `INSERT INTO creator_external_profiles (` + strings.Join(cols, ", ") +
		`, last_synced_at, created_at, updated_at) VALUES (` + strings.Join(placeholders, ", ") +
		`, now(), now(), now())`

	if _, err := s.db.ExecContext(ctx, query, vals...); err != nil {
		return fmt.Errorf("insert creator: %w", err)
	}
	return nil
}

// UpdateFields writes the known fields of the record in one statement.
func (s *CreatorStore) UpdateFields(ctx context.Context, id string, record *domain.CreatorRecord) error {
	cols, vals := knownFields(record)

	sets := make([]string, 0, len(cols)+2)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	sets = append(sets, "last_synced_at = now()", "updated_at = now()")
	vals = append(vals, id)

	query := `UPDATE creator_external_profiles SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(` WHERE id = $%d`, len(vals))

	result, err := s.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return fmt.Errorf("update creator: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update creator: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertMinimal creates a placeholder row. An existing row for the handle is
// left untouched.
func (s *CreatorStore) InsertMinimal(ctx context.Context, handle, displayName string) error {
	query := `
		INSERT INTO creator_external_profiles (id, creator_handle_name, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (creator_handle_name) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), handle, displayName); err != nil {
		return fmt.Errorf("insert creator placeholder: %w", err)
	}
	return nil
}

// ListHandles returns the distinct non-empty handles on file.
func (s *CreatorStore) ListHandles(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT creator_handle_name
		FROM creator_external_profiles
		WHERE btrim(creator_handle_name) <> ''
		ORDER BY creator_handle_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list creator handles: %w", err)
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan creator handle: %w", err)
		}
		handles = append(handles, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list creator handles: %w", err)
	}
	return handles, nil
}

func scanCreator(row *sql.Row) (*domain.CreatorProfile, error) {
	var (
		p              domain.CreatorProfile
		displayName    sql.NullString
		bio            sql.NullString
		followers      sql.NullInt64
		following      sql.NullInt64
		likes          sql.NullInt64
		medianViews    sql.NullInt64
		price          sql.NullInt64
		currency       sql.NullString
		contentLabel   sql.NullString
		videoCount     sql.NullInt64
		engagementRate sql.NullFloat64
		lastSyncedAt   sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.Handle,
		&displayName,
		&bio,
		&followers,
		&following,
		&likes,
		&medianViews,
		&price,
		&currency,
		&contentLabel,
		&videoCount,
		&engagementRate,
		&lastSyncedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan creator: %w", err)
	}

	p.DisplayName = stringPtr(displayName)
	p.Bio = stringPtr(bio)
	p.Followers = int64Ptr(followers)
	p.Following = int64Ptr(following)
	p.Likes = int64Ptr(likes)
	p.MedianViews = int64Ptr(medianViews)
	p.Price = int64Ptr(price)
	p.Currency = stringPtr(currency)
	p.ContentLabel = stringPtr(contentLabel)
	p.VideoCount = int64Ptr(videoCount)
	p.EngagementRate = float64Ptr(engagementRate)
	p.LastSyncedAt = timePtr(lastSyncedAt)
	return &p, nil
}
