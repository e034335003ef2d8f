package recommend

import "strings"

// fallbackPlaces holds the fixed per-city lists substituted when the fallback
// policy absorbs a malformed upstream payload. Coordinates are real.
var fallbackPlaces = map[string][]Place{
	"bengaluru": {
		{Name: "Cubbon Park", Description: "Sprawling green lung in the city centre with walking trails", Distance: "4 km", Fare: "Free", Rating: 4.5, Latitude: 12.9763, Longitude: 77.5929},
		{Name: "Lalbagh Botanical Garden", Description: "240-acre garden around a 3,000-million-year-old rock outcrop", Distance: "6 km", Fare: "₹30", Rating: 4.5, Latitude: 12.9507, Longitude: 77.5848},
		{Name: "Bangalore Palace", Description: "Tudor-style palace with audio-guided tours", Distance: "7 km", Fare: "₹250", Rating: 4.2, Latitude: 12.9987, Longitude: 77.5921},
		{Name: "Wonderla Amusement Park", Description: "Large amusement park with water rides", Distance: "28 km", Fare: "₹1300", Rating: 4.6, Latitude: 12.8343, Longitude: 77.4010},
		{Name: "Nandi Hills", Description: "Hilltop fort famous for sunrise views", Distance: "60 km", Fare: "₹20", Rating: 4.4, Latitude: 13.3702, Longitude: 77.6835},
		{Name: "Commercial Street", Description: "Dense shopping street for clothes, jewellery and food", Distance: "5 km", Fare: "Free", Rating: 4.1, Latitude: 12.9833, Longitude: 77.6089},
	},
}

// FallbackPlaces returns the enriched fixed list for the city, sized to the
// policy's cardinality, or nil when no list is configured for that city.
func FallbackPlaces(req *Request, policy Policy) []EnrichedPlace {
	raw, ok := fallbackPlaces[strings.ToLower(strings.TrimSpace(req.City))]
	if !ok {
		return nil
	}
	if policy.Cardinality == CardinalityExact4 && len(raw) > 4 {
		raw = raw[:4]
	}

	out := make([]EnrichedPlace, 0, len(raw))
	for _, p := range raw {
		out = append(out, NormalizePlace(p, req))
	}
	return out
}
