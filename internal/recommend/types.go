package recommend

// UserLocation is an optional caller position used for distance enrichment.
type UserLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Request describes one recommendation query. It is built per HTTP call,
// consumed immediately, and never persisted.
type Request struct {
	City         string        `json:"city" validate:"required"`
	Radius       float64       `json:"radius,omitempty" validate:"gte=0"`
	Vibes        []string      `json:"vibes" validate:"required,min=1,dive,required"`
	Visited      []string      `json:"visited,omitempty"`
	Selected     []string      `json:"selected,omitempty"`
	Bookmarked   []string      `json:"bookmarked,omitempty"`
	UserLocation *UserLocation `json:"userLocation,omitempty"`
}

const defaultRadiusKm = 10

// EffectiveRadius returns the requested search radius in km, defaulting to 10.
func (r *Request) EffectiveRadius() float64 {
	if r.Radius <= 0 {
		return defaultRadiusKm
	}
	return r.Radius
}

// Place is one raw record as returned by the generation service. Every field
// is untrusted: any of them may be missing or carry the wrong JSON type.
type Place struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Distance    any    `json:"distance"`
	Fare        any    `json:"fare"`
	Rating      any    `json:"rating"`
	Latitude    any    `json:"latitude"`
	Longitude   any    `json:"longitude"`
}

// EnrichedPlace is the only place shape exposed to clients.
type EnrichedPlace struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Distance         string   `json:"distance"`
	Fare             string   `json:"fare"`
	Rating           string   `json:"rating"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Coordinates      string   `json:"coordinates"`
	MapURL           string   `json:"mapUrl"`
	DistanceFromUser *float64 `json:"distanceFromUser,omitempty"`
}

// Cardinality controls how many places one response must contain.
type Cardinality string

const (
	// CardinalityExact4 requires exactly four places.
	CardinalityExact4 Cardinality = "exact4"
	// CardinalityAtLeast6 requires six or more places; the prompt asks for 6-8.
	CardinalityAtLeast6 Cardinality = "atLeast6"
)

// MalformedAction controls what happens when the upstream payload breaks the
// JSON contract.
type MalformedAction string

const (
	// MalformedFail surfaces contract violations as errors.
	MalformedFail MalformedAction = "fail"
	// MalformedFallback substitutes the fixed fallback list for the city.
	MalformedFallback MalformedAction = "fallback"
)

// Policy is the explicit per-deployment configuration that collapses the
// historical endpoint variants into one endpoint.
type Policy struct {
	Cardinality         Cardinality
	OnMalformed         MalformedAction
	RequireUserLocation bool
}

// DefaultPolicy asks for 6-8 places and hard-fails on malformed output.
func DefaultPolicy() Policy {
	return Policy{Cardinality: CardinalityAtLeast6, OnMalformed: MalformedFail}
}
