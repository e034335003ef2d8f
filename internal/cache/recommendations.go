package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wanderplan/wanderplan/internal/recommend"
)

const recommendationTTL = time.Hour

// RecommendationCache stores normalized place lists keyed by a hash of the
// canonical request, so identical queries skip the generation service for an
// hour.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache constructs a cache with a 1-hour TTL.
func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{client: client, ttl: recommendationTTL}
}

// requestKey derives a stable Redis key from every request field that changes
// the response. Exclusion lists are sorted first: they are sets, not sequences.
func requestKey(req *recommend.Request) string {
	h := sha256.New()
	_, _ = io.WriteString(h, strings.ToLower(strings.TrimSpace(req.City)))
	fmt.Fprintf(h, "|r=%g", req.EffectiveRadius())
	fmt.Fprintf(h, "|v=%s", strings.Join(req.Vibes, ","))
	for _, list := range [][]string{req.Visited, req.Selected, req.Bookmarked} {
		sorted := append([]string(nil), list...)
		sort.Strings(sorted)
		fmt.Fprintf(h, "|%s", strings.Join(sorted, ","))
	}
	if req.UserLocation != nil {
		fmt.Fprintf(h, "|u=%g,%g", req.UserLocation.Lat, req.UserLocation.Lng)
	}
	return "recommend:" + hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached place list. Returns nil, nil on a miss.
func (c *RecommendationCache) Get(ctx context.Context, req *recommend.Request) ([]recommend.EnrichedPlace, error) {
	val, err := c.client.Get(ctx, requestKey(req)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for city %s: %w", req.City, err)
	}

	var places []recommend.EnrichedPlace
	if err := json.Unmarshal([]byte(val), &places); err != nil {
		return nil, fmt.Errorf("unmarshaling cached places for city %s: %w", req.City, err)
	}

	return places, nil
}

// Set stores a place list under the request's key with the configured TTL.
func (c *RecommendationCache) Set(ctx context.Context, req *recommend.Request, places []recommend.EnrichedPlace) error {
	if len(places) == 0 {
		return nil
	}

	b, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("marshaling places for city %s: %w", req.City, err)
	}

	if err := c.client.Set(ctx, requestKey(req), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for city %s: %w", req.City, err)
	}

	return nil
}
