package storage_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderplan/wanderplan/internal/storage"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// ---- mock Querier ----

type mockQuerier struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.queryRowFn(ctx, sql, args...)
}
func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return m.queryFn(ctx, sql, args...)
}
func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return m.execFn(ctx, sql, args...)
}

// fakeRow runs an arbitrary scan function.
type fakeRow struct {
	scanFn func(dest ...any) error
}

func (f *fakeRow) Scan(dest ...any) error { return f.scanFn(dest...) }

// ---- users ----

func TestUser_ComparePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	u := storage.User{PasswordHash: string(hash)}
	assert.True(t, u.ComparePassword("hunter2hunter2"))
	assert.False(t, u.ComparePassword("wrong-password"))
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now()
	var gotArgs []any
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			gotArgs = args
			return &fakeRow{scanFn: func(dest ...any) error {
				*(dest[0].(*time.Time)) = now
				return nil
			}}
		},
	}

	repo := storage.NewUserRepositoryWithQuerier(q)
	u, err := repo.Create(context.Background(), "ann@example.com", "ann", "correct horse battery")
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "ann", u.Username)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, now, u.CreatedAt)

	// The stored hash must verify and must not be the plaintext.
	require.Len(t, gotArgs, 4)
	hash := gotArgs[3].(string)
	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, u.ComparePassword("correct horse battery"))
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(_ ...any) error {
				return &pgconn.PgError{Code: "23505"}
			}}
		},
	}

	repo := storage.NewUserRepositoryWithQuerier(q)
	_, err := repo.Create(context.Background(), "ann@example.com", "ann", "correct horse battery")
	require.ErrorIs(t, err, storage.ErrDuplicateAccount)
}

func TestUserRepository_FindByEmailOrUsername_NotFound(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(_ ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := storage.NewUserRepositoryWithQuerier(q)
	u, err := repo.FindByEmailOrUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_FindByEmailOrUsername(t *testing.T) {
	id := uuid.New()
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			assert.Equal(t, []any{"ann"}, args)
			return &fakeRow{scanFn: func(dest ...any) error {
				*(dest[0].(*uuid.UUID)) = id
				*(dest[1].(*string)) = "ann@example.com"
				*(dest[2].(*string)) = "ann"
				*(dest[3].(*string)) = "hash"
				*(dest[4].(*time.Time)) = time.Now()
				return nil
			}}
		},
	}

	repo := storage.NewUserRepositoryWithQuerier(q)
	u, err := repo.FindByEmailOrUsername(context.Background(), "ann")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
}

// ---- trips ----

func sampleState() trip.PlanState {
	return trip.PlanState{
		City: "Bengaluru",
		Days: []trip.DayPlan{{Date: "2026-09-01", Vibe: "Nature"}},
	}
}

func TestTripRepository_Create(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Len(t, args, 3)
			assert.Equal(t, userID, args[1])

			var state trip.PlanState
			require.NoError(t, json.Unmarshal(args[2].([]byte), &state))
			assert.Equal(t, "Bengaluru", state.City)

			return &fakeRow{scanFn: func(dest ...any) error {
				*(dest[0].(*time.Time)) = now
				*(dest[1].(*time.Time)) = now
				return nil
			}}
		},
	}

	repo := storage.NewTripRepositoryWithQuerier(q)
	stored, err := repo.Create(context.Background(), userID, sampleState())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Equal(t, userID, stored.UserID)
}

func TestTripRepository_Get_NotFound(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(_ ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := storage.NewTripRepositoryWithQuerier(q)
	stored, err := repo.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestTripRepository_Get(t *testing.T) {
	id := uuid.New()
	stateJSON, err := json.Marshal(sampleState())
	require.NoError(t, err)

	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(dest ...any) error {
				*(dest[0].(*uuid.UUID)) = id
				*(dest[1].(*uuid.UUID)) = uuid.New()
				*(dest[2].(*[]byte)) = stateJSON
				*(dest[3].(*time.Time)) = time.Now()
				*(dest[4].(*time.Time)) = time.Now()
				return nil
			}}
		},
	}

	repo := storage.NewTripRepositoryWithQuerier(q)
	stored, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Bengaluru", stored.State.City)
	require.Len(t, stored.State.Days, 1)
	assert.Equal(t, "Nature", stored.State.Days[0].Vibe)
}

func TestTripRepository_UpdateState(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}

	repo := storage.NewTripRepositoryWithQuerier(q)
	require.NoError(t, repo.UpdateState(context.Background(), uuid.New(), sampleState()))
}

func TestTripRepository_UpdateState_Missing(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}

	repo := storage.NewTripRepositoryWithQuerier(q)
	require.Error(t, repo.UpdateState(context.Background(), uuid.New(), sampleState()))
}
