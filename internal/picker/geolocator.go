package picker

import (
	"context"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// StaticLocator is a Geolocator reporting a fixed position, used for
// client-supplied geolocation hints.
type StaticLocator struct {
	Coordinate geo.Coordinate
}

// Locate returns the fixed position.
func (l StaticLocator) Locate(ctx context.Context) (geo.Coordinate, error) {
	return l.Coordinate, nil
}
