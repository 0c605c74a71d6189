package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return &DB{DB: mockDB}, mock
}

func creatorRowColumns() []string {
	return []string{
		"id", "creator_handle_name", "display_name", "bio", "follower_count",
		"following_count", "likes_count", "median_views", "price", "currency", "content_label",
		"video_count", "engagement_rate", "last_synced_at", "created_at", "updated_at",
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreatorStore_GetByHandle(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)
	now := time.Now()

	rows := sqlmock.NewRows(creatorRowColumns()).AddRow(
		"c-1", "alice", "Alice A", nil, int64(12346),
		nil, nil, nil, nil, nil, nil,
		nil, 4.2, now, now, now,
	)
	mock.ExpectQuery(`FROM creator_external_profiles WHERE creator_handle_name = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	p, err := store.GetByHandle(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "c-1", p.ID)
	assert.Equal(t, "alice", p.Handle)
	assert.Equal(t, "Alice A", *p.DisplayName)
	assert.Equal(t, int64(12346), *p.Followers)
	assert.Equal(t, 4.2, *p.EngagementRate)
	assert.Nil(t, p.Bio)
	assert.Nil(t, p.Likes)
	require.NotNil(t, p.LastSyncedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStore_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	mock.ExpectQuery(`FROM creator_external_profiles WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(creatorRowColumns()))

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStore_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	record := &domain.CreatorRecord{
		Handle:         "alice",
		DisplayName:    ptr("Alice A"),
		Followers:      ptr(int64(12346)),
		EngagementRate: ptr(4.2),
	}

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO creator_external_profiles (id, creator_handle_name, display_name, follower_count, engagement_rate, last_synced_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, now(), now(), now())`,
	)).
		WithArgs(sqlmock.AnyArg(), "alice", "Alice A", int64(12346), 4.2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Insert(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStore_Insert_Error(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	mock.ExpectExec(`INSERT INTO creator_external_profiles`).
		WillReturnError(errors.New("value too long for type character varying"))

	err := store.Insert(context.Background(), &domain.CreatorRecord{Handle: "alice", Bio: ptr("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert creator")
}

func TestCreatorStore_UpdateFields_OnlyKnown(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	record := &domain.CreatorRecord{
		Handle:    "alice",
		Followers: ptr(int64(500)),
		Currency:  ptr("USD"),
	}

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE creator_external_profiles SET follower_count = $1, currency = $2, last_synced_at = now(), updated_at = now() WHERE id = $3`,
	)).
		WithArgs(int64(500), "USD", "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateFields(context.Background(), "c-1", record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStore_UpdateFields_NothingKnown(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE creator_external_profiles SET last_synced_at = now(), updated_at = now() WHERE id = $1`,
	)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateFields(context.Background(), "c-1", &domain.CreatorRecord{Handle: "alice"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStore_UpdateFields_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	mock.ExpectExec(`UPDATE creator_external_profiles`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateFields(context.Background(), "gone", &domain.CreatorRecord{Handle: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatorStore_InsertMinimal(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	mock.ExpectExec(`ON CONFLICT \(creator_handle_name\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), "bob", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.InsertMinimal(context.Background(), "bob", "bob"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStore_ListHandles(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCreatorStore(db)

	mock.ExpectQuery(`SELECT DISTINCT creator_handle_name`).
		WillReturnRows(sqlmock.NewRows([]string{"creator_handle_name"}).AddRow("alice").AddRow("bob"))

	handles, err := store.ListHandles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, handles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKnownFields_Order(t *testing.T) {
	cols, vals := knownFields(&domain.CreatorRecord{
		Handle:         "x",
		EngagementRate: ptr(1.5),
		DisplayName:    ptr("X"),
		VideoCount:     ptr(int64(3)),
	})
	assert.Equal(t, []string{"display_name", "video_count", "engagement_rate"}, cols)
	assert.Equal(t, []any{"X", int64(3), 1.5}, vals)
}
