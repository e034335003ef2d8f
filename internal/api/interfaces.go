package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/wanderplan/wanderplan/internal/recommend"
	"github.com/wanderplan/wanderplan/internal/storage"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// Recommender is the recommendation pipeline used by handlers.
type Recommender interface {
	Recommend(ctx context.Context, req *recommend.Request) ([]recommend.EnrichedPlace, error)
	Policy() recommend.Policy
}

// RecommendationCache defines the response cache used by the recommend handler.
type RecommendationCache interface {
	Get(ctx context.Context, req *recommend.Request) ([]recommend.EnrichedPlace, error)
	Set(ctx context.Context, req *recommend.Request, places []recommend.EnrichedPlace) error
}

// UserStore defines the account operations needed by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, email, username, password string) (*storage.User, error)
	FindByEmailOrUsername(ctx context.Context, identifier string) (*storage.User, error)
}

// TripStore defines the trip persistence needed by the trip handlers.
type TripStore interface {
	Create(ctx context.Context, userID uuid.UUID, state trip.PlanState) (*storage.Trip, error)
	Get(ctx context.Context, id uuid.UUID) (*storage.Trip, error)
	UpdateState(ctx context.Context, id uuid.UUID, state trip.PlanState) error
}

// TripPlanner builds the initial state for a new trip.
type TripPlanner interface {
	Build(ctx context.Context, req trip.BuildRequest) (trip.PlanState, error)
}

// Sessions defines the login-session operations shared by the login handler
// and the auth middleware.
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
}
