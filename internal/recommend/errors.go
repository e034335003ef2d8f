package recommend

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey means the generation client has no credentials configured.
// It is returned before any network call is attempted.
var ErrNoAPIKey = errors.New("recommend: generation API key is not configured")

// ErrEmptyUpstream means the generation call succeeded but the response
// envelope carried no text candidate.
var ErrEmptyUpstream = errors.New("recommend: generation response contained no text")

// UpstreamError is a non-2xx reply from the generation service. Body is for
// server-side logs only and must never reach HTTP clients verbatim.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation service returned status %d", e.Status)
}

// MalformedResponseError means the generated text was not parseable JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("generated text is not valid JSON: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// InvalidCardinalityError means the parsed list does not satisfy the policy.
type InvalidCardinalityError struct {
	Got  int
	Want Cardinality
}

func (e *InvalidCardinalityError) Error() string {
	return fmt.Sprintf("generated list has %d places, want %s", e.Got, e.Want)
}

// IsContractViolation reports whether err is a malformed-payload or wrong-count
// failure, i.e. one the fallback policy may absorb.
func IsContractViolation(err error) bool {
	var malformed *MalformedResponseError
	var cardinality *InvalidCardinalityError
	return errors.As(err, &malformed) || errors.As(err, &cardinality)
}
