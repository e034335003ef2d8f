package recommend

import (
	"fmt"
	"strings"
)

// joinOrNone renders a list as comma-joined text, or the literal "None" when
// empty, so the model never sees an ambiguous empty clause.
func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// BuildPrompt constructs the instruction sent to the generation service.
// Pure function of its inputs: same request and policy, same prompt.
// The JSON-only demand is best effort — the model may still wrap its reply in
// markdown fences, which the normalizer strips.
func BuildPrompt(req *Request, policy Policy) string {
	countClause := "between 6 and 8"
	if policy.Cardinality == CardinalityExact4 {
		countClause = "exactly 4"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %s places to visit in %s within a %.0f km radius.\n", countClause, req.City, req.EffectiveRadius())
	fmt.Fprintf(&b, "The places should match these vibes: %s.\n", joinOrNone(req.Vibes))
	fmt.Fprintf(&b, "Do not include these already visited places: %s.\n", joinOrNone(req.Visited))
	fmt.Fprintf(&b, "Do not include these already selected places: %s.\n", joinOrNone(req.Selected))
	fmt.Fprintf(&b, "Prefer these bookmarked places when relevant: %s.\n", joinOrNone(req.Bookmarked))
	if req.UserLocation != nil {
		fmt.Fprintf(&b, "The user is currently at latitude %f, longitude %f.\n", req.UserLocation.Lat, req.UserLocation.Lng)
	}
	b.WriteString("Respond with a raw JSON array only: no markdown fences, no prose, nothing before or after the array.\n")
	b.WriteString(`Each array element must have exactly the fields "name", "description", "distance", "fare", "rating", "latitude" and "longitude".`)
	return b.String()
}
