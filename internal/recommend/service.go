package recommend

import (
	"context"
	"log/slog"
)

// Service runs the prompt → generate → normalize pipeline under one policy.
type Service struct {
	gen    Generator
	policy Policy
	log    *slog.Logger
}

// NewService constructs a Service around the given generator and policy.
func NewService(gen Generator, policy Policy, log *slog.Logger) *Service {
	return &Service{gen: gen, policy: policy, log: log}
}

// Policy exposes the deployment policy; handlers need RequireUserLocation.
func (s *Service) Policy() Policy { return s.policy }

// Recommend produces the enriched place list for one validated request.
// When the policy is MalformedFallback, upstream contract violations are
// absorbed by the fixed city list if one exists; every other failure is
// returned to the caller and mapped to HTTP at the endpoint boundary.
func (s *Service) Recommend(ctx context.Context, req *Request) ([]EnrichedPlace, error) {
	prompt := BuildPrompt(req, s.policy)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	places, err := Normalize(raw, req, s.policy)
	if err != nil {
		if s.policy.OnMalformed == MalformedFallback && IsContractViolation(err) {
			if fb := FallbackPlaces(req, s.policy); fb != nil {
				s.log.Warn("substituting fallback places", "city", req.City, "err", err)
				return fb, nil
			}
		}
		return nil, err
	}

	return places, nil
}
