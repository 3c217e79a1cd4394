package maps

import (
	"context"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// Candidate is a single place suggestion returned by a provider. Candidates
// are ephemeral: each new query replaces the previous result list wholesale.
type Candidate struct {
	PlaceID     string         `json:"place_id"`
	Description string         `json:"description"`
	Coordinate  geo.Coordinate `json:"coordinate"`
}

// AutocompleteRequest carries a free-text query plus a bias location that
// favours geographically nearby results.
type AutocompleteRequest struct {
	Query        string
	Bias         geo.Coordinate
	RadiusMeters int
	StrictBounds bool
}

// Provider is the places-search capability the location picker consumes.
type Provider interface {
	Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Candidate, error)
}
