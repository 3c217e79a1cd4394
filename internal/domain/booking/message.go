package booking

import (
	"net/url"
	"strings"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// Submission is the outbound result of a successful form submit: the
// multi-line WhatsApp message plus the map links derived from whatever
// coordinate slots were populated.
type Submission struct {
	Message string       `json:"message"`
	Links   geo.MapLinks `json:"links"`
}

// BuildSubmission constructs the structured booking message from a validated
// draft. Absent coordinates simply omit the corresponding map link.
func BuildSubmission(d Draft) Submission {
	bookingType := BookingType(d.BookingType)
	links := geo.DeriveMapLinks(d.PickupCoordinate, d.DropCoordinate)

	var b strings.Builder
	b.WriteString("🚗 *BangaloreCabs Booking Request*\n\n")
	b.WriteString("📋 *Booking Details:*\n")
	b.WriteString("👤 Name: " + d.Name + "\n")
	b.WriteString("📱 Mobile: " + d.Mobile + "\n")

	if bookingType.CabRequired() {
		b.WriteString("🚗 Cab Type: " + d.CabType + "\n")
	} else {
		b.WriteString("🚗 Cab Type: Spare Driver (customer's own car)\n")
	}

	b.WriteString("📍 Pickup: " + d.Pickup + "\n")
	if bookingType.DropRequired() {
		b.WriteString("🎯 Drop: " + d.Drop + "\n")
	}

	b.WriteString("📅 Date: " + d.Date + "\n")
	b.WriteString("⏰ Time: " + d.Time + "\n")
	b.WriteString("🎫 Booking Type: " + bookingType.Label() + "\n")

	if d.Notes != "" {
		b.WriteString("📝 Notes: " + d.Notes + "\n")
	}

	if links.Pickup != "" {
		b.WriteString("🗺️ Pickup Map: " + links.Pickup + "\n")
	}
	if links.Drop != "" {
		b.WriteString("🗺️ Drop Map: " + links.Drop + "\n")
	}
	if links.Direction != "" {
		b.WriteString("🧭 Directions: " + links.Direction + "\n")
	}

	b.WriteString("\nPlease confirm the booking and share the fare details. Thank you! 🙏")

	return Submission{Message: b.String(), Links: links}
}

// WhatsAppURL returns the messaging deep-link that opens a chat with the
// operator number pre-filled with the booking message.
func WhatsAppURL(number, message string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
