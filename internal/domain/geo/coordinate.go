package geo

import (
	"fmt"
	"math"
	"strconv"
)

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate validates and returns a Coordinate. Coordinates enter the
// system only through geolocation or a selected place candidate, so an
// out-of-range pair indicates a provider bug rather than user error.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinate{}, fmt.Errorf("coordinate components must be finite: (%v, %v)", lat, lng)
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude out of range [-90, 90]: %v", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("longitude out of range [-180, 180]: %v", lng)
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}

// IsValid reports whether the coordinate satisfies the NewCoordinate invariants.
func (c Coordinate) IsValid() bool {
	_, err := NewCoordinate(c.Latitude, c.Longitude)
	return err == nil
}

// String returns the coordinate as "lat,lng" with minimal precision loss,
// the format map deep-links and bias parameters expect.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
