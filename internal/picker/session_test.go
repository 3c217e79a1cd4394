package picker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// stubLocator is a controllable geolocation capability. When block is
// non-nil, Locate waits for it to close (or the context to expire) before
// returning.
type stubLocator struct {
	coord geo.Coordinate
	err   error
	block chan struct{}
}

func (l *stubLocator) Locate(ctx context.Context) (geo.Coordinate, error) {
	if l.block != nil {
		select {
		case <-l.block:
		case <-ctx.Done():
			return geo.Coordinate{}, ctx.Err()
		}
	}
	if l.err != nil {
		return geo.Coordinate{}, l.err
	}
	return l.coord, nil
}

func newTestSession(locator Geolocator) *Session {
	return NewSession(locator, 500*time.Millisecond, zap.NewNop())
}

func TestSession_LifecycleTransitions(t *testing.T) {
	s := newTestSession(nil)
	assert.Equal(t, StateUninitialized, s.State())
	assert.Equal(t, float64(initialZoom), s.Viewport().Zoom)
	assert.Nil(t, s.Marker())

	require.True(t, s.StyleReady())
	assert.Equal(t, StateLoading, s.State())

	// Duplicate availability signals must not instantiate a second map.
	assert.False(t, s.StyleReady())
	assert.Equal(t, StateLoading, s.State())

	require.True(t, s.Loaded(context.Background()))
	assert.Equal(t, StateReady, s.State())
	assert.False(t, s.Loaded(context.Background()))
}

func TestSession_GeolocationSuccessRecentersViewport(t *testing.T) {
	here := geo.Coordinate{Latitude: 12.9352, Longitude: 77.6245}
	s := newTestSession(&stubLocator{coord: here})

	s.StyleReady()
	s.Loaded(context.Background())

	require.Eventually(t, func() bool {
		return s.Marker() != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, here, *s.Marker())
	assert.Equal(t, Viewport{Center: here, Zoom: closeZoom}, s.Viewport())
}

func TestSession_GeolocationFailureFallsBackToCityCenter(t *testing.T) {
	s := newTestSession(&stubLocator{err: errors.New("permission denied")})

	s.StyleReady()
	s.Loaded(context.Background())

	require.Eventually(t, func() bool {
		return s.Marker() != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, FallbackCenter, *s.Marker())
	assert.Equal(t, float64(closeZoom), s.Viewport().Zoom, "fallback must not leave the initial wide zoom")
}

func TestSession_NoGeolocatorFallsBackToCityCenter(t *testing.T) {
	s := newTestSession(nil)

	s.StyleReady()
	s.Loaded(context.Background())

	require.Eventually(t, func() bool {
		return s.Marker() != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, FallbackCenter, *s.Marker())
}

func TestSession_DisposalRace(t *testing.T) {
	// Geolocation resolves only after the session is disposed; the late
	// callback must not mutate anything.
	release := make(chan struct{})
	s := newTestSession(&stubLocator{
		coord: geo.Coordinate{Latitude: 12.9716, Longitude: 77.5946},
		block: release,
	})

	s.StyleReady()
	s.Loaded(context.Background())
	s.Dispose()
	close(release)

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, StateDisposed, s.State())
	assert.Nil(t, s.Marker())
	assert.Equal(t, float64(initialZoom), s.Viewport().Zoom)
}

func TestSession_SelectPlaceLastWriteWins(t *testing.T) {
	s := newTestSession(nil)
	s.StyleReady()
	s.Loaded(context.Background())

	first := geo.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	second := geo.Coordinate{Latitude: 12.9352, Longitude: 77.6245}

	require.True(t, s.SelectPlace(first))
	require.True(t, s.SelectPlace(second))

	require.NotNil(t, s.Marker())
	assert.Equal(t, second, *s.Marker())
	assert.Equal(t, Viewport{Center: second, Zoom: closeZoom}, s.Viewport())
}

func TestSession_SelectPlaceIgnoredAfterDispose(t *testing.T) {
	s := newTestSession(nil)
	s.StyleReady()
	s.Loaded(context.Background())
	s.Dispose()

	assert.False(t, s.SelectPlace(geo.Coordinate{Latitude: 1, Longitude: 1}))
	assert.Nil(t, s.Marker())
}

func TestAuthorizeTileURL(t *testing.T) {
	assert.Equal(t,
		"https://api.olamaps.io/tiles/vector/v1/styles/default-light-standard/style.json",
		StyleURL())

	assert.Equal(t,
		"https://api.olamaps.io/tiles/a.pbf?api_key=k1",
		AuthorizeTileURL("https://app.olamaps.io/tiles/a.pbf", "k1"))

	assert.Equal(t,
		"https://api.olamaps.io/tiles/a.pbf?v=2&api_key=k1",
		AuthorizeTileURL("https://api.olamaps.io/tiles/a.pbf?v=2", "k1"))
}
