package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"bangalore city center", 12.9629, 77.5775, false},
		{"equator prime meridian", 0, 0, false},
		{"latitude upper bound", 90, 180, false},
		{"latitude lower bound", -90, -180, false},
		{"latitude too high", 90.0001, 77.5775, true},
		{"latitude too low", -91, 77.5775, true},
		{"longitude too high", 12.9629, 180.5, true},
		{"longitude too low", 12.9629, -181, true},
		{"nan latitude", math.NaN(), 77.5775, true},
		{"infinite longitude", 12.9629, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinate(tt.lat, tt.lng)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lat, c.Latitude)
			assert.Equal(t, tt.lng, c.Longitude)
			assert.True(t, c.IsValid())
		})
	}
}

func TestDeriveMapLinks_PickupOnly(t *testing.T) {
	pickup := Coordinate{Latitude: 12.9716, Longitude: 77.5946}

	links := DeriveMapLinks(&pickup, nil)

	assert.Equal(t, "https://www.google.com/maps?q=12.9716,77.5946", links.Pickup)
	assert.Empty(t, links.Drop)
	assert.Empty(t, links.Direction)
}

func TestDeriveMapLinks_BothPresent(t *testing.T) {
	pickup := Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	drop := Coordinate{Latitude: 12.9352, Longitude: 77.6245}

	links := DeriveMapLinks(&pickup, &drop)

	assert.Equal(t, "https://www.google.com/maps?q=12.9716,77.5946", links.Pickup)
	assert.Equal(t, "https://www.google.com/maps?q=12.9352,77.6245", links.Drop)
	assert.Equal(t,
		"https://www.google.com/maps/dir/?api=1&origin=12.9716,77.5946&destination=12.9352,77.6245",
		links.Direction)
}

func TestDeriveMapLinks_NonePresent(t *testing.T) {
	links := DeriveMapLinks(nil, nil)
	assert.Equal(t, MapLinks{}, links)
}
