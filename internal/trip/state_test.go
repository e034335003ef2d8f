package trip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/trip"
)

func twoDayTrip() trip.PlanState {
	return trip.PlanState{
		City: "Bengaluru",
		Days: []trip.DayPlan{
			{Date: "2026-09-01", Vibe: "Nature", Selected: []string{"Cubbon Park"}},
			{Date: "2026-09-02", Vibe: "Foodie"},
		},
	}
}

func TestApply_Select(t *testing.T) {
	next, err := trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventSelect, Day: 1, Place: "VV Puram Food Street"})
	require.NoError(t, err)
	assert.Equal(t, []string{"VV Puram Food Street"}, next.Days[1].Selected)
}

func TestApply_SelectIsIdempotent(t *testing.T) {
	s := twoDayTrip()
	next, err := trip.Apply(s, trip.Event{Kind: trip.EventSelect, Day: 0, Place: "Cubbon Park"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cubbon Park"}, next.Days[0].Selected)
}

func TestApply_Deselect(t *testing.T) {
	next, err := trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventDeselect, Day: 0, Place: "Cubbon Park"})
	require.NoError(t, err)
	assert.Empty(t, next.Days[0].Selected)
}

func TestApply_VisitRemovesSelection(t *testing.T) {
	next, err := trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventVisit, Day: 0, Place: "Cubbon Park"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cubbon Park"}, next.Days[0].Visited)
	assert.Empty(t, next.Days[0].Selected)
}

func TestApply_SetVibe(t *testing.T) {
	next, err := trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventSetVibe, Day: 1, Vibe: "Nightlife"})
	require.NoError(t, err)
	assert.Equal(t, "Nightlife", next.Days[1].Vibe)
}

func TestApply_Bookmark(t *testing.T) {
	next, err := trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventBookmark, Day: 0, Place: "Lalbagh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lalbagh"}, next.Days[0].Bookmarked)
}

func TestApply_DayOutOfRange(t *testing.T) {
	_, err := trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventSelect, Day: 2, Place: "X"})
	require.Error(t, err)

	_, err = trip.Apply(twoDayTrip(), trip.Event{Kind: trip.EventSelect, Day: -1, Place: "X"})
	require.Error(t, err)
}

func TestApply_UnknownKind(t *testing.T) {
	_, err := trip.Apply(twoDayTrip(), trip.Event{Kind: "teleport", Day: 0})
	require.Error(t, err)
}

func TestApply_InputStateUntouched(t *testing.T) {
	s := twoDayTrip()

	_, err := trip.Apply(s, trip.Event{Kind: trip.EventVisit, Day: 0, Place: "Cubbon Park"})
	require.NoError(t, err)

	// The reducer must not mutate its input.
	assert.Equal(t, []string{"Cubbon Park"}, s.Days[0].Selected)
	assert.Empty(t, s.Days[0].Visited)
}

func TestApply_Chained(t *testing.T) {
	s := twoDayTrip()

	s, err := trip.Apply(s, trip.Event{Kind: trip.EventSelect, Day: 1, Place: "Toit"})
	require.NoError(t, err)
	s, err = trip.Apply(s, trip.Event{Kind: trip.EventVisit, Day: 1, Place: "Toit"})
	require.NoError(t, err)

	assert.Empty(t, s.Days[1].Selected)
	assert.Equal(t, []string{"Toit"}, s.Days[1].Visited)
}
