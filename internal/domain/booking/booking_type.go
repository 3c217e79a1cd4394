package booking

import "fmt"

// BookingType is an enumerated trip category. The selected type changes which
// form fields are required.
type BookingType string

const (
	TypePointToPoint BookingType = "point-to-point"
	TypeHourly       BookingType = "hourly"
	TypeAirport      BookingType = "airport"
	TypeOutstation   BookingType = "outstation"
	TypeTour         BookingType = "tour"
	TypeCorporate    BookingType = "corporate"
	TypeDriverOnly   BookingType = "driver-only"
)

// TypeInfo is the display representation of a booking type.
type TypeInfo struct {
	ID          BookingType `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

// bookingTypes is the catalog order shown to users.
var bookingTypes = []TypeInfo{
	{TypePointToPoint, "Point to Point", "Direct ride from pickup to drop"},
	{TypeHourly, "Hourly Rental", "Book for multiple hours"},
	{TypeAirport, "Airport Transfer", "To/From Bangalore Airport"},
	{TypeOutstation, "Outstation", "Travel outside Bangalore"},
	{TypeTour, "City Tour", "Sightseeing around Bangalore"},
	{TypeCorporate, "Corporate", "Business travel"},
	{TypeDriverOnly, "Spare Driver", "A driver for your own car"},
}

// AllTypes returns the booking type catalog.
func AllTypes() []TypeInfo {
	return append([]TypeInfo(nil), bookingTypes...)
}

// IsValid returns true if the booking type is a recognized catalog entry.
func (t BookingType) IsValid() bool {
	for _, info := range bookingTypes {
		if info.ID == t {
			return true
		}
	}
	return false
}

// Label returns the display name for the booking type, falling back to the
// raw value for unknown types.
func (t BookingType) Label() string {
	for _, info := range bookingTypes {
		if info.ID == t {
			return info.Name
		}
	}
	return string(t)
}

// DropRequired reports whether a drop location is part of this trip category.
// Hourly rentals and city tours end where they start, and a spare driver
// drives the customer's own car wherever they ask.
func (t BookingType) DropRequired() bool {
	switch t {
	case TypeHourly, TypeTour, TypeDriverOnly:
		return false
	default:
		return true
	}
}

// CabRequired reports whether a cab type must be chosen. A spare-driver
// booking uses the customer's own vehicle.
func (t BookingType) CabRequired() bool {
	return t != TypeDriverOnly
}

// ParseBookingType converts a string to a BookingType, returning an error if
// it is not in the catalog.
func ParseBookingType(s string) (BookingType, error) {
	t := BookingType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid booking type: %s", s)
	}
	return t, nil
}
