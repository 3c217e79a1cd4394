package booking

import (
	"strings"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// Field names a booking form field.
type Field string

const (
	FieldName        Field = "name"
	FieldPickup      Field = "pickup"
	FieldDrop        Field = "drop"
	FieldMobile      Field = "mobile"
	FieldDate        Field = "date"
	FieldTime        Field = "time"
	FieldCabType     Field = "cabType"
	FieldBookingType Field = "bookingType"
	FieldNotes       Field = "notes"
)

// Draft is the mutable booking form content for one page session. Coordinate
// slots are populated only through the location picker; a hand-typed pickup
// or drop leaves the corresponding slot absent, which is allowed.
type Draft struct {
	Name        string `json:"name"`
	Pickup      string `json:"pickup"`
	Drop        string `json:"drop"`
	Mobile      string `json:"mobile"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	CabType     string `json:"cab_type"`
	BookingType string `json:"booking_type"`
	Notes       string `json:"notes"`

	PickupCoordinate *geo.Coordinate `json:"pickup_coordinate,omitempty"`
	DropCoordinate   *geo.Coordinate `json:"drop_coordinate,omitempty"`
}

// fieldValue returns the raw string value for a field.
func (d Draft) fieldValue(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldPickup:
		return d.Pickup
	case FieldDrop:
		return d.Drop
	case FieldMobile:
		return d.Mobile
	case FieldDate:
		return d.Date
	case FieldTime:
		return d.Time
	case FieldCabType:
		return d.CabType
	case FieldBookingType:
		return d.BookingType
	case FieldNotes:
		return d.Notes
	default:
		return ""
	}
}

// setFieldValue writes the raw string value for a field.
func (d *Draft) setFieldValue(f Field, v string) {
	switch f {
	case FieldName:
		d.Name = v
	case FieldPickup:
		d.Pickup = v
	case FieldDrop:
		d.Drop = v
	case FieldMobile:
		d.Mobile = v
	case FieldDate:
		d.Date = v
	case FieldTime:
		d.Time = v
	case FieldCabType:
		d.CabType = v
	case FieldBookingType:
		d.BookingType = v
	case FieldNotes:
		d.Notes = v
	}
}

// RequiredFields computes the required-field set for the draft's booking
// type. The base set always applies; drop and cab type depend on the type.
func RequiredFields(t BookingType) []Field {
	fields := []Field{FieldName, FieldPickup, FieldMobile, FieldDate, FieldTime, FieldBookingType}
	if t.DropRequired() {
		fields = append(fields, FieldDrop)
	}
	if t.CabRequired() {
		fields = append(fields, FieldCabType)
	}
	return fields
}

// Progress returns the form-completion percentage: filled required fields
// over total required fields. A field counts as filled when its trimmed
// value is non-empty; coordinate slots never factor in.
func (d Draft) Progress() float64 {
	required := RequiredFields(BookingType(d.BookingType))
	filled := 0
	for _, f := range required {
		if strings.TrimSpace(d.fieldValue(f)) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(required)) * 100
}
