package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// GoogleProvider implements Provider on top of the Google Maps Platform
// text-search endpoint, which returns description and geometry in one call.
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider creates a GoogleProvider with the given API key.
func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

// Autocomplete runs a text search biased to req.Bias and converts the results
// into place candidates. An empty query yields an empty list without a
// provider round-trip.
func (g *GoogleProvider) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Candidate, error) {
	if strings.TrimSpace(req.Query) == "" {
		return []Candidate{}, nil
	}

	searchReq := &maps.TextSearchRequest{
		Query: req.Query,
		Location: &maps.LatLng{
			Lat: req.Bias.Latitude,
			Lng: req.Bias.Longitude,
		},
	}
	if req.RadiusMeters > 0 {
		searchReq.Radius = uint(req.RadiusMeters)
	}

	resp, err := g.client.TextSearch(ctx, searchReq)
	if err != nil {
		return nil, fmt.Errorf("place search request failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, result := range resp.Results {
		coord, err := geo.NewCoordinate(result.Geometry.Location.Lat, result.Geometry.Location.Lng)
		if err != nil {
			// Skip malformed provider geometry rather than failing the whole list.
			continue
		}
		candidates = append(candidates, Candidate{
			PlaceID:     result.PlaceID,
			Description: describeResult(result.Name, result.FormattedAddress),
			Coordinate:  coord,
		})
	}

	return candidates, nil
}

// describeResult joins the place name and formatted address, avoiding the
// duplicate prefix Google often returns for named establishments.
func describeResult(name, address string) string {
	if name == "" {
		return address
	}
	if address == "" || strings.HasPrefix(strings.ToLower(address), strings.ToLower(name)) {
		if address != "" {
			return address
		}
		return name
	}
	return name + ", " + address
}
