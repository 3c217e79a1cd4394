package application

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
	"github.com/bangalorecabs/service-booking/pkg/maps"
)

// PlaceCache stores autocomplete results keyed by normalized query + bias.
// A miss is (nil, false, nil).
type PlaceCache interface {
	Get(ctx context.Context, key string) ([]maps.Candidate, bool, error)
	Put(ctx context.Context, key string, candidates []maps.Candidate) error
}

// PlaceService orchestrates autocomplete lookups: cache first, then the
// provider under a bounded timeout. Provider failures degrade to an empty
// candidate list and are logged for operators; the caller never sees an
// error, only missing suggestions.
type PlaceService struct {
	provider     maps.Provider
	cache        PlaceCache
	timeout      time.Duration
	radiusMeters int
	logger       *zap.Logger
}

// NewPlaceService creates a PlaceService. cache may be nil to disable
// caching.
func NewPlaceService(
	provider maps.Provider,
	cache PlaceCache,
	timeout time.Duration,
	radiusMeters int,
	logger *zap.Logger,
) *PlaceService {
	return &PlaceService{
		provider:     provider,
		cache:        cache,
		timeout:      timeout,
		radiusMeters: radiusMeters,
		logger:       logger,
	}
}

// Search returns place candidates for the query biased to the given
// location. The result is always non-nil; an empty list covers empty
// queries, genuine zero-result queries, provider failures, and timeouts
// alike.
func (s *PlaceService) Search(ctx context.Context, query string, bias geo.Coordinate) []maps.Candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return []maps.Candidate{}
	}

	key := cacheKey(query, bias)
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("place cache read failed", zap.Error(err))
		} else if ok {
			return cached
		}
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := s.provider.Autocomplete(pctx, maps.AutocompleteRequest{
		Query:        query,
		Bias:         bias,
		RadiusMeters: s.radiusMeters,
	})
	if err != nil {
		// The next keystroke supersedes this call anyway; no retry.
		s.logger.Error("autocomplete provider failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return []maps.Candidate{}
	}
	if candidates == nil {
		candidates = []maps.Candidate{}
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, candidates); err != nil {
			s.logger.Warn("place cache write failed", zap.Error(err))
		}
	}

	return candidates
}

// cacheKey normalizes a query + bias into a cache key.
func cacheKey(query string, bias geo.Coordinate) string {
	return strings.ToLower(query) + "|" + bias.String()
}
