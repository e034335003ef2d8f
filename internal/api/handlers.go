package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wanderplan/wanderplan/internal/recommend"
	"github.com/wanderplan/wanderplan/internal/storage"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	rec      Recommender
	cache    RecommendationCache
	users    UserStore
	trips    TripStore
	planner  TripPlanner
	sessions Sessions
	validate *validator.Validate
	log      *slog.Logger
}

// Request bodies larger than this are rejected during decode.
const maxBodyBytes = 1 << 20

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(rec Recommender, cache RecommendationCache, users UserStore, trips TripStore, planner TripPlanner, sessions Sessions, log *slog.Logger) *Handlers {
	return &Handlers{
		rec:      rec,
		cache:    cache,
		users:    users,
		trips:    trips,
		planner:  planner,
		sessions: sessions,
		validate: validator.New(),
		log:      log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation. Validation messages describe the caller's own input, so they are
// safe to echo back.
func (h *Handlers) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return errors.New("request body is not valid JSON")
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// Recommend handles POST /api/v1/recommend.
// Validate → cache lookup → prompt/generate/normalize → cache fill → 200.
// Upstream failures never leak verbatim: clients get a generic 500 while the
// full error is logged here.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if h.rec.Policy().RequireUserLocation && req.UserLocation == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userLocation is required"})
		return
	}

	cached, err := h.cache.Get(r.Context(), &req)
	if err != nil {
		h.log.Error("recommendation cache get failed", "city", req.City, "err", err)
	}
	if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	places, err := h.rec.Recommend(r.Context(), &req)
	if err != nil {
		h.log.Error("recommendation failed", "city", req.City, "vibes", req.Vibes, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate recommendations"})
		return
	}

	if err := h.cache.Set(r.Context(), &req, places); err != nil {
		h.log.Warn("recommendation cache set failed", "city", req.City, "err", err)
	}

	writeJSON(w, http.StatusOK, places)
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Signup handles POST /api/v1/auth/signup.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateAccount) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "email or username already registered"})
			return
		}
		h.log.Error("signup failed", "email", req.Email, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID.String(), Email: user.Email, Username: user.Username})
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Login handles POST /api/v1/auth/login.
// The same 401 covers unknown accounts and wrong passwords.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.users.FindByEmailOrUsername(r.Context(), req.Identifier)
	if err != nil {
		h.log.Error("login lookup failed", "identifier", req.Identifier, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if user == nil || !user.ComparePassword(req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID.String())
	if err != nil {
		h.log.Error("session create failed", "user", user.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID.String(), Email: user.Email, Username: user.Username},
	})
}

type createTripRequest struct {
	City         string                  `json:"city" validate:"required"`
	Radius       float64                 `json:"radius" validate:"gte=0"`
	StartDate    string                  `json:"startDate" validate:"required,datetime=2006-01-02"`
	Vibes        []string                `json:"vibes" validate:"required,min=1,dive,required"`
	UserLocation *recommend.UserLocation `json:"userLocation,omitempty"`
}

// CreateTrip handles POST /api/v1/trips. One vibe per day; each day's
// recommendations are fetched in parallel and a failed day stays empty.
func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(UserID(r.Context()))
	if err != nil {
		unauthorized(w)
		return
	}

	var req createTripRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)

	state, err := h.planner.Build(r.Context(), trip.BuildRequest{
		City:         req.City,
		Radius:       req.Radius,
		StartDate:    start,
		Vibes:        req.Vibes,
		UserLocation: req.UserLocation,
	})
	if err != nil {
		h.log.Error("trip planning failed", "city", req.City, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to plan trip"})
		return
	}

	stored, err := h.trips.Create(r.Context(), userID, state)
	if err != nil {
		h.log.Error("trip create failed", "city", req.City, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store trip"})
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// getOwnedTrip loads the trip from the URL and checks it belongs to the
// caller. Trips of other accounts read as not-found.
func (h *Handlers) getOwnedTrip(ctx context.Context, w http.ResponseWriter, r *http.Request) *storage.Trip {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid trip id"})
		return nil
	}

	stored, err := h.trips.Get(ctx, id)
	if err != nil {
		h.log.Error("trip get failed", "trip", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return nil
	}
	if stored == nil || stored.UserID.String() != UserID(ctx) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "trip not found"})
		return nil
	}

	return stored
}

// GetTrip handles GET /api/v1/trips/{id}.
func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	stored := h.getOwnedTrip(r.Context(), w, r)
	if stored == nil {
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// ApplyTripEvent handles POST /api/v1/trips/{id}/events: run the reducer over
// the stored state and persist the result.
func (h *Handlers) ApplyTripEvent(w http.ResponseWriter, r *http.Request) {
	stored := h.getOwnedTrip(r.Context(), w, r)
	if stored == nil {
		return
	}

	var ev trip.Event
	if err := h.decodeAndValidate(r, &ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	next, err := trip.Apply(stored.State, ev)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.trips.UpdateState(r.Context(), stored.ID, next); err != nil {
		h.log.Error("trip update failed", "trip", stored.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store trip state"})
		return
	}

	writeJSON(w, http.StatusOK, next)
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity. 200 when both respond, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}
