package pins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-portfolio/internal/database"
	"github-portfolio/internal/database/databasetest"
	custom_errors "github-portfolio/internal/errors"
)

func steppingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("a sixth pin fails and leaves the first five unchanged", func(t *testing.T) {
		store := NewMemoryStore(WithClock(steppingClock()))
		for i := 1; i <= MaxPins; i++ {
			_, err := store.Add(ctx, "user-x", fmt.Sprintf("R_%d", i), fmt.Sprintf("repo-%d", i), "octocat")
			require.NoError(t, err)
		}
		before, err := store.List(ctx, "user-x")
		require.NoError(t, err)

		_, err = store.Add(ctx, "user-x", "R_6", "repo-6", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrLimitExceeded)
		after, err := store.List(ctx, "user-x")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("the limit applies even to an already pinned item", func(t *testing.T) {
		store := NewMemoryStore(WithClock(steppingClock()))
		for i := 1; i <= MaxPins; i++ {
			_, err := store.Add(ctx, "user-x", fmt.Sprintf("R_%d", i), "repo", "octocat")
			require.NoError(t, err)
		}

		_, err := store.Add(ctx, "user-x", "R_1", "repo", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrLimitExceeded)
	})

	t.Run("unpinning frees a slot", func(t *testing.T) {
		store := NewMemoryStore(WithClock(steppingClock()))
		for i := 1; i <= MaxPins; i++ {
			_, err := store.Add(ctx, "user-x", fmt.Sprintf("R_%d", i), "repo", "octocat")
			require.NoError(t, err)
		}
		_, err := store.Add(ctx, "user-x", "R_6", "repo-6", "octocat")
		require.ErrorIs(t, err, custom_errors.ErrLimitExceeded)

		require.NoError(t, store.Remove(ctx, "user-x", "R_3"))
		pin, err := store.Add(ctx, "user-x", "R_6", "repo-6", "octocat")

		require.NoError(t, err)
		assert.Equal(t, "R_6", pin.RepositoryID)
		pinned, err := store.IsPinned(ctx, "user-x", "R_3")
		require.NoError(t, err)
		assert.False(t, pinned)
	})

	t.Run("a duplicate pin fails without creating a second entry", func(t *testing.T) {
		store := NewMemoryStore(WithClock(steppingClock()))
		_, err := store.Add(ctx, "user-x", "R_1", "repo", "octocat")
		require.NoError(t, err)

		_, err = store.Add(ctx, "user-x", "R_1", "repo", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrAlreadyPinned)
		list, err := store.List(ctx, "user-x")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("pins of different identities are independent", func(t *testing.T) {
		store := NewMemoryStore(WithClock(steppingClock()))
		_, err := store.Add(ctx, "user-x", "R_1", "repo", "octocat")
		require.NoError(t, err)

		_, err = store.Add(ctx, "user-y", "R_1", "repo", "octocat")

		assert.NoError(t, err)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Add(ctx, "user-x", "R_1", "", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrValidation)
	})
}

func TestMemoryStore_ListAndRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithClock(steppingClock()))
	for _, id := range []string{"R_1", "R_2", "R_3"} {
		_, err := store.Add(ctx, "user-x", id, "repo", "octocat")
		require.NoError(t, err)
	}

	list, err := store.List(ctx, "user-x")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "R_3", list[0].RepositoryID, "most recently pinned first")
	assert.Equal(t, "R_1", list[2].RepositoryID)

	require.NoError(t, store.Remove(ctx, "user-x", "missing"), "removing an unknown pin is a no-op")
	list, err = store.List(ctx, "user-x")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	empty, err := store.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPostgresStore_AddPin(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

	t.Run("inserts a pin when under the limit", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := &PostgresStore{logger: logger, opts: buildOptions([]Option{WithClock(func() time.Time { return now })})}

		mockQ.On("LockUserPins", ctx, "user-1").Return(nil).Once()
		mockQ.On("CountPins", ctx, "user-1").Return(int64(2), nil).Once()
		mockQ.On("PinExists", ctx, database.PinExistsParams{UserID: "user-1", RepositoryID: "R_1"}).Return(false, nil).Once()
		mockQ.On("InsertPin", ctx, mock.MatchedBy(func(p database.InsertPinParams) bool {
			return p.UserID == "user-1" && p.RepositoryID == "R_1" && p.RepositoryName == "hello" &&
				p.RepositoryOwner == "octocat" && p.PinnedAt.Equal(now) && p.ID != ""
		})).Return(func(_ context.Context, p database.InsertPinParams) database.PinnedRepository {
			return database.PinnedRepository{
				ID:              p.ID,
				UserID:          p.UserID,
				RepositoryID:    p.RepositoryID,
				RepositoryName:  p.RepositoryName,
				RepositoryOwner: p.RepositoryOwner,
				PinnedAt:        p.PinnedAt,
			}
		}, nil).Once()

		pin, err := store.addPin(ctx, mockQ, "user-1", "R_1", "hello", "octocat")

		require.NoError(t, err)
		assert.Equal(t, "R_1", pin.RepositoryID)
		assert.Equal(t, now, pin.PinnedAt)
		mockQ.AssertExpectations(t)
	})

	t.Run("fails with ErrLimitExceeded at five pins", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := &PostgresStore{logger: logger, opts: buildOptions(nil)}

		mockQ.On("LockUserPins", ctx, "user-1").Return(nil).Once()
		mockQ.On("CountPins", ctx, "user-1").Return(int64(MaxPins), nil).Once()

		_, err := store.addPin(ctx, mockQ, "user-1", "R_6", "hello", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrLimitExceeded)
		mockQ.AssertNotCalled(t, "InsertPin")
	})

	t.Run("fails with ErrAlreadyPinned for a duplicate", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := &PostgresStore{logger: logger, opts: buildOptions(nil)}

		mockQ.On("LockUserPins", ctx, "user-1").Return(nil).Once()
		mockQ.On("CountPins", ctx, "user-1").Return(int64(1), nil).Once()
		mockQ.On("PinExists", ctx, mock.Anything).Return(true, nil).Once()

		_, err := store.addPin(ctx, mockQ, "user-1", "R_1", "hello", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrAlreadyPinned)
		mockQ.AssertNotCalled(t, "InsertPin")
	})

	t.Run("maps a unique violation to ErrAlreadyPinned", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := &PostgresStore{logger: logger, opts: buildOptions(nil)}

		mockQ.On("LockUserPins", ctx, "user-1").Return(nil).Once()
		mockQ.On("CountPins", ctx, "user-1").Return(int64(0), nil).Once()
		mockQ.On("PinExists", ctx, mock.Anything).Return(false, nil).Once()
		mockQ.On("InsertPin", ctx, mock.Anything).Return(database.PinnedRepository{}, &pgconn.PgError{Code: "23505"}).Once()

		_, err := store.addPin(ctx, mockQ, "user-1", "R_1", "hello", "octocat")

		assert.ErrorIs(t, err, custom_errors.ErrAlreadyPinned)
	})

	t.Run("propagates lock failures", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := &PostgresStore{logger: logger, opts: buildOptions(nil)}
		dbError := errors.New("lock timeout")

		mockQ.On("LockUserPins", ctx, "user-1").Return(dbError).Once()

		_, err := store.addPin(ctx, mockQ, "user-1", "R_1", "hello", "octocat")

		assert.ErrorIs(t, err, dbError)
		mockQ.AssertNotCalled(t, "CountPins")
	})
}

func TestPostgresStore_Reads(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("lists pins in query order", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := NewPostgresStore(nil, mockQ, logger)
		mockQ.On("ListPins", ctx, "user-1").Return([]database.PinnedRepository{
			{ID: "p2", UserID: "user-1", RepositoryID: "R_2"},
			{ID: "p1", UserID: "user-1", RepositoryID: "R_1"},
		}, nil).Once()

		list, err := store.List(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "R_2", list[0].RepositoryID)
	})

	t.Run("remove of a missing pin is not an error", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := NewPostgresStore(nil, mockQ, logger)
		mockQ.On("DeletePin", ctx, database.DeletePinParams{UserID: "user-1", RepositoryID: "R_9"}).Return(int64(0), nil).Once()

		assert.NoError(t, store.Remove(ctx, "user-1", "R_9"))
		mockQ.AssertExpectations(t)
	})

	t.Run("is pinned reports existence", func(t *testing.T) {
		mockQ := new(databasetest.MockQuerier)
		store := NewPostgresStore(nil, mockQ, logger)
		mockQ.On("PinExists", ctx, database.PinExistsParams{UserID: "user-1", RepositoryID: "R_1"}).Return(true, nil).Once()

		pinned, err := store.IsPinned(ctx, "user-1", "R_1")

		require.NoError(t, err)
		assert.True(t, pinned)
	})
}
