package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371

// StripFences removes a markdown code-fence wrapper (with optional "json" tag)
// from model output. Idempotent and lossless: unfenced text passes through
// unchanged, and stripping twice equals stripping once.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = strings.TrimPrefix(cleaned, "```json")
	case strings.HasPrefix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```")
	default:
		return cleaned
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// Normalize parses raw model output into the enriched place list, or fails
// with MalformedResponseError / InvalidCardinalityError. Output order is the
// order the model produced; no re-sorting.
func Normalize(raw string, req *Request, policy Policy) ([]EnrichedPlace, error) {
	var places []Place
	if err := json.Unmarshal([]byte(StripFences(raw)), &places); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	if err := checkCardinality(len(places), policy.Cardinality); err != nil {
		return nil, err
	}

	out := make([]EnrichedPlace, 0, len(places))
	for _, p := range places {
		out = append(out, NormalizePlace(p, req))
	}
	return out, nil
}

func checkCardinality(n int, c Cardinality) error {
	switch c {
	case CardinalityExact4:
		if n != 4 {
			return &InvalidCardinalityError{Got: n, Want: c}
		}
	default:
		if n < 6 {
			return &InvalidCardinalityError{Got: n, Want: c}
		}
	}
	return nil
}

// NormalizePlace coerces one untrusted record to the client shape. Fields are
// defaulted individually rather than rejecting the whole batch: name "Unknown",
// description "No description", distance/fare/rating "?", coordinates 0.
func NormalizePlace(p Place, req *Request) EnrichedPlace {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "Unknown"
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		description = "No description"
	}

	lat := floatOrZero(p.Latitude)
	lng := floatOrZero(p.Longitude)

	enriched := EnrichedPlace{
		Name:        name,
		Description: description,
		Distance:    stringOrPlaceholder(p.Distance),
		Fare:        stringOrPlaceholder(p.Fare),
		Rating:      stringOrPlaceholder(p.Rating),
		Latitude:    lat,
		Longitude:   lng,
		Coordinates: fmt.Sprintf("%g,%g", lat, lng),
		MapURL:      mapSearchURL(name, req.City),
	}

	if req.UserLocation != nil {
		d := haversineKm(req.UserLocation.Lat, req.UserLocation.Lng, lat, lng)
		d = math.Round(d*100) / 100
		enriched.DistanceFromUser = &d
	}
	return enriched
}

// stringOrPlaceholder coerces a string-or-number JSON value to text, "?" when
// missing or some other type entirely.
func stringOrPlaceholder(v any) string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "?"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return "?"
	}
}

// floatOrZero coerces a numeric JSON value to float64, 0 when missing or
// non-numeric. Numbers sent as strings are accepted.
func floatOrZero(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// mapSearchURL builds a Google Maps search link for the place, percent-encoding
// the place name and city into the query.
func mapSearchURL(name, city string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(name+" "+city)
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
