package geo

import "fmt"

const mapsHost = "https://www.google.com"

// MapLinks holds the derivable map-view deep-links for a booking. A link is
// empty when the coordinate(s) it needs are absent.
type MapLinks struct {
	Pickup    string `json:"pickup,omitempty"`
	Drop      string `json:"drop,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// ViewLink returns a map-view deep-link for a single coordinate.
func ViewLink(c Coordinate) string {
	return fmt.Sprintf("%s/maps?q=%s", mapsHost, c.String())
}

// DirectionLink returns a directions deep-link from origin to destination.
func DirectionLink(origin, destination Coordinate) string {
	return fmt.Sprintf("%s/maps/dir/?api=1&origin=%s&destination=%s",
		mapsHost, origin.String(), destination.String())
}

// DeriveMapLinks builds the link set from optional pickup/drop coordinates:
// pickup link iff pickup is present, drop link iff drop is present, direction
// link iff both are present.
func DeriveMapLinks(pickup, drop *Coordinate) MapLinks {
	var links MapLinks
	if pickup != nil {
		links.Pickup = ViewLink(*pickup)
	}
	if drop != nil {
		links.Drop = ViewLink(*drop)
	}
	if pickup != nil && drop != nil {
		links.Direction = DirectionLink(*pickup, *drop)
	}
	return links
}
