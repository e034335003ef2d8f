package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wanderplan/wanderplan/internal/api"
	"github.com/wanderplan/wanderplan/internal/cache"
	"github.com/wanderplan/wanderplan/internal/recommend"
	"github.com/wanderplan/wanderplan/internal/storage"
	"github.com/wanderplan/wanderplan/internal/trip"
)

func main() {
	// Local dev convenience; in deployment the environment is already set.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	databaseURL := mustEnv("DATABASE_URL")
	redisURL := mustEnv("REDIS_URL")
	geminiKey := mustEnv("GEMINI_API_KEY")
	geminiModel := getEnv("GEMINI_MODEL", "")
	port := getEnv("PORT", "8080")

	policy, err := policyFromEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Connect to PostgreSQL and apply migrations.
	pool, err := storage.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := storage.Migrate(ctx, pool, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations applied")

	// Connect to Redis.
	redisClient, err := cache.Connect(ctx, redisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	// Wire dependencies.
	recommender := recommend.NewService(recommend.NewGeminiClient(geminiKey, geminiModel), policy, log)
	recCache := cache.NewRecommendationCache(redisClient)
	sessions := cache.NewSessionStore(redisClient)
	users := storage.NewUserRepository(pool)
	trips := storage.NewTripRepository(pool)
	planner := trip.NewPlanner(recommender, log)

	handlers := api.NewHandlers(recommender, recCache, users, trips, planner, sessions, log)

	dbPinger := &pgxPoolPinger{pool: pool}
	redisPinger := &redisPingerAdapter{client: redisClient}

	router := api.NewRouter(handlers, sessions, dbPinger, redisPinger, log)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", port, "cardinality", string(policy.Cardinality), "on_malformed", string(policy.OnMalformed))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// policyFromEnv reads the per-deployment recommendation policy. Unknown
// values are rejected at boot rather than surprising anyone at request time.
func policyFromEnv() (recommend.Policy, error) {
	policy := recommend.DefaultPolicy()

	switch v := getEnv("RECOMMEND_CARDINALITY", string(policy.Cardinality)); recommend.Cardinality(v) {
	case recommend.CardinalityExact4, recommend.CardinalityAtLeast6:
		policy.Cardinality = recommend.Cardinality(v)
	default:
		return policy, fmt.Errorf("invalid RECOMMEND_CARDINALITY %q (want exact4 or atLeast6)", v)
	}

	switch v := getEnv("RECOMMEND_ON_MALFORMED", string(policy.OnMalformed)); recommend.MalformedAction(v) {
	case recommend.MalformedFail, recommend.MalformedFallback:
		policy.OnMalformed = recommend.MalformedAction(v)
	default:
		return policy, fmt.Errorf("invalid RECOMMEND_ON_MALFORMED %q (want fail or fallback)", v)
	}

	policy.RequireUserLocation = getEnv("RECOMMEND_REQUIRE_LOCATION", "false") == "true"
	return policy, nil
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable not set", "key", key)
		os.Exit(1)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// pgxPoolPinger adapts pgxpool.Pool to the api health-check pinger.
type pgxPoolPinger struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p *pgxPoolPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// redisPingerAdapter adapts redis.Client to the api health-check pinger.
type redisPingerAdapter struct {
	client *redis.Client
}

func (r *redisPingerAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
