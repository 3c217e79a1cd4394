package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/domain/booking"
	"github.com/bangalorecabs/service-booking/internal/domain/geo"
	"github.com/bangalorecabs/service-booking/pkg/maps"
)

var testBias = geo.Coordinate{Latitude: 12.9629, Longitude: 77.5775}

type stubProvider struct {
	candidates []maps.Candidate
	err        error
	calls      int
}

func (p *stubProvider) Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.Candidate, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.candidates, nil
}

type memoryCache struct {
	entries map[string][]maps.Candidate
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]maps.Candidate)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]maps.Candidate, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	candidates, ok := c.entries[key]
	return candidates, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, candidates []maps.Candidate) error {
	c.entries[key] = candidates
	return nil
}

func TestPlaceService_EmptyQueryShortCircuits(t *testing.T) {
	provider := &stubProvider{}
	svc := NewPlaceService(provider, nil, time.Second, 30000, zap.NewNop())

	assert.Empty(t, svc.Search(context.Background(), "   ", testBias))
	assert.Zero(t, provider.calls)
}

func TestPlaceService_ProviderFailureDegradesToEmpty(t *testing.T) {
	provider := &stubProvider{err: errors.New("quota exceeded")}
	svc := NewPlaceService(provider, nil, time.Second, 30000, zap.NewNop())

	results := svc.Search(context.Background(), "koramangala", testBias)

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestPlaceService_CacheHitSkipsProvider(t *testing.T) {
	want := []maps.Candidate{{
		PlaceID:     "p1",
		Description: "Koramangala, Bengaluru",
		Coordinate:  geo.Coordinate{Latitude: 12.9352, Longitude: 77.6245},
	}}
	provider := &stubProvider{candidates: want}
	cache := newMemoryCache()
	svc := NewPlaceService(provider, cache, time.Second, 30000, zap.NewNop())

	first := svc.Search(context.Background(), "Koramangala", testBias)
	second := svc.Search(context.Background(), "koramangala", testBias)

	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
	assert.Equal(t, 1, provider.calls, "second lookup should be served from cache (case-insensitive key)")
}

func TestPlaceService_CacheReadFailureFallsThrough(t *testing.T) {
	provider := &stubProvider{candidates: []maps.Candidate{}}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	svc := NewPlaceService(provider, cache, time.Second, 30000, zap.NewNop())

	svc.Search(context.Background(), "mg road", testBias)
	assert.Equal(t, 1, provider.calls)
}

func validTestDraft() booking.Draft {
	today := time.Now().Format("2006-01-02")
	return booking.Draft{
		Name:        "Ravi Kumar",
		Pickup:      "Indiranagar",
		Drop:        "Whitefield",
		Mobile:      "9876543210",
		Date:        today,
		Time:        "09:30",
		CabType:     "sedan",
		BookingType: string(booking.TypePointToPoint),
	}
}

func TestBookingService_ValidateReportsErrorsAndProgress(t *testing.T) {
	svc := NewBookingService("919876543210", zap.NewNop())

	draft := validTestDraft()
	draft.Mobile = "12345"
	draft.Drop = ""

	result := svc.Validate(context.Background(), draft)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "mobile")
	assert.Contains(t, result.Errors, "drop")
	assert.Contains(t, result.RequiredFields, booking.FieldDrop)
	assert.InDelta(t, 6.0/8.0*100, result.Progress, 0.001)
}

func TestBookingService_SubmitBuildsDeepLink(t *testing.T) {
	svc := NewBookingService("919876543210", zap.NewNop())

	draft := validTestDraft()
	pickup := geo.Coordinate{Latitude: 12.9719, Longitude: 77.6412}
	draft.PickupCoordinate = &pickup

	result, validation, err := svc.Submit(context.Background(), draft)

	require.NoError(t, err)
	assert.True(t, validation.Valid)
	assert.Contains(t, result.WhatsAppURL, "https://wa.me/919876543210?text=")
	assert.Contains(t, result.Message, "Ravi Kumar")
	assert.NotEmpty(t, result.Links.Pickup)
	assert.Empty(t, result.Links.Direction, "direction link needs both coordinates")
}

func TestBookingService_SubmitRejectsInvalidDraft(t *testing.T) {
	svc := NewBookingService("919876543210", zap.NewNop())

	draft := validTestDraft()
	draft.Mobile = ""

	_, validation, err := svc.Submit(context.Background(), draft)

	require.ErrorIs(t, err, booking.ErrValidationFailed)
	assert.Contains(t, validation.Errors, "mobile")
}
