package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderplan/wanderplan/internal/trip"
)

// Trip is one stored trip plan. State carries the full day/selection state as
// JSONB.
type Trip struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	State     trip.PlanState `json:"state"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TripRepository provides trip storage.
type TripRepository struct {
	q Querier
}

// NewTripRepository constructs a TripRepository backed by the pool.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{q: pool}
}

// NewTripRepositoryWithQuerier constructs a TripRepository with a custom
// Querier (for tests).
func NewTripRepositoryWithQuerier(q Querier) *TripRepository {
	return &TripRepository{q: q}
}

// Create inserts a trip for the account and returns the stored record.
func (r *TripRepository) Create(ctx context.Context, userID uuid.UUID, state trip.PlanState) (*Trip, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshaling trip state: %w", err)
	}

	const q = `
		INSERT INTO trips (id, user_id, state)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	t := Trip{ID: uuid.New(), UserID: userID, State: state}
	if err := r.q.QueryRow(ctx, q, t.ID, t.UserID, stateJSON).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("inserting trip for user %s: %w", userID, err)
	}

	return &t, nil
}

// Get retrieves a trip by id. Returns nil, nil when the trip does not exist.
func (r *TripRepository) Get(ctx context.Context, id uuid.UUID) (*Trip, error) {
	const q = `
		SELECT id, user_id, state, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var t Trip
	var stateJSON []byte

	err := r.q.QueryRow(ctx, q, id).Scan(&t.ID, &t.UserID, &stateJSON, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying trip %s: %w", id, err)
	}

	if err := json.Unmarshal(stateJSON, &t.State); err != nil {
		return nil, fmt.Errorf("unmarshaling state for trip %s: %w", id, err)
	}

	return &t, nil
}

// UpdateState replaces a trip's state and bumps updated_at.
func (r *TripRepository) UpdateState(ctx context.Context, id uuid.UUID, state trip.PlanState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling trip state: %w", err)
	}

	const q = `
		UPDATE trips
		SET state = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, q, id, stateJSON)
	if err != nil {
		return fmt.Errorf("updating trip %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s does not exist", id)
	}

	return nil
}
