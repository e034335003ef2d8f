package trip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wanderplan/wanderplan/internal/recommend"
)

// Recommender is the slice of the recommendation pipeline the planner needs.
type Recommender interface {
	Recommend(ctx context.Context, req *recommend.Request) ([]recommend.EnrichedPlace, error)
}

// Planner builds initial trip states by fanning out one recommendation request
// per day.
type Planner struct {
	rec Recommender
	log *slog.Logger
}

// NewPlanner constructs a Planner.
func NewPlanner(rec Recommender, log *slog.Logger) *Planner {
	return &Planner{rec: rec, log: log}
}

// BuildRequest describes the trip to plan: one vibe per day, starting at
// StartDate.
type BuildRequest struct {
	City         string
	Radius       float64
	StartDate    time.Time
	Vibes        []string
	UserLocation *recommend.UserLocation
}

// Build fetches recommendations for every day in parallel. A failed day is
// non-fatal: its place list stays empty and the failure is logged, so one bad
// upstream reply does not sink the whole trip.
func (p *Planner) Build(ctx context.Context, req BuildRequest) (PlanState, error) {
	days := make([]DayPlan, len(req.Vibes))
	for i, vibe := range req.Vibes {
		days[i] = DayPlan{
			Date: req.StartDate.AddDate(0, 0, i).Format("2006-01-02"),
			Vibe: vibe,
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i := range days {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					p.log.Error("day planning panicked", "recover", r)
					err = fmt.Errorf("day planning panicked: %v", r)
				}
			}()

			places, recErr := p.rec.Recommend(gCtx, &recommend.Request{
				City:         req.City,
				Radius:       req.Radius,
				Vibes:        []string{days[i].Vibe},
				UserLocation: req.UserLocation,
			})
			if recErr != nil {
				p.log.Warn("day recommendation failed", "city", req.City, "vibe", days[i].Vibe, "err", recErr)
				return nil
			}
			days[i].Places = places
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return PlanState{}, fmt.Errorf("planning trip for %s: %w", req.City, err)
	}

	return PlanState{City: req.City, Days: days}, nil
}
