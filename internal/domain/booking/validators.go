package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout        = "2006-01-02"
	maxAdvanceDays    = 30
	minLocationLength = 3
)

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	mobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// TimeSlots returns the bookable half-hour pickup slots, 06:00 through 23:30.
func TimeSlots() []string {
	slots := make([]string, 0, 36)
	for h := 6; h <= 23; h++ {
		for _, m := range []string{"00", "30"} {
			slots = append(slots, fmt.Sprintf("%02d:%s", h, m))
		}
	}
	return slots
}

// isTimeSlot reports whether v is one of the bookable slots.
func isTimeSlot(v string) bool {
	for _, s := range TimeSlots() {
		if s == v {
			return true
		}
	}
	return false
}

// ValidateField validates one field against the current draft and returns an
// error message, or "" when the value is acceptable. Cross-field rules (drop
// vs pickup, required-by-type) read the rest of the draft; now anchors the
// date window.
func ValidateField(d Draft, field Field, now time.Time) string {
	value := d.fieldValue(field)

	switch field {
	case FieldName:
		if strings.TrimSpace(value) == "" {
			return "Full name is required"
		}
		if len(strings.TrimSpace(value)) < 2 {
			return "Name must be at least 2 characters long"
		}
		if !nameRe.MatchString(value) {
			return "Name can only contain letters and spaces"
		}

	case FieldMobile:
		if strings.TrimSpace(value) == "" {
			return "Mobile number is required"
		}
		if !mobileRe.MatchString(spaceRe.ReplaceAllString(value, "")) {
			return "Please enter a valid 10-digit Indian mobile number starting with 6-9"
		}

	case FieldPickup:
		if strings.TrimSpace(value) == "" {
			return "Pickup location is required"
		}
		if len(strings.TrimSpace(value)) < minLocationLength {
			return "Please enter a valid pickup location (minimum 3 characters)"
		}

	case FieldDrop:
		if strings.TrimSpace(value) == "" {
			return "Drop location is required"
		}
		if len(strings.TrimSpace(value)) < minLocationLength {
			return "Please enter a valid drop location (minimum 3 characters)"
		}
		if BookingType(d.BookingType).DropRequired() &&
			strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(d.Pickup)) {
			return "Drop location must be different from pickup location"
		}

	case FieldDate:
		if value == "" {
			return "Travel date is required"
		}
		travelDate, err := time.ParseInLocation(dateLayout, value, now.Location())
		if err != nil {
			return "Please enter a valid travel date"
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if travelDate.Before(today) {
			return "Travel date cannot be in the past"
		}
		if travelDate.After(today.AddDate(0, 0, maxAdvanceDays)) {
			return "Bookings can only be made up to 30 days in advance"
		}

	case FieldTime:
		if value == "" {
			return "Travel time is required"
		}
		if !isTimeSlot(value) {
			return "Please choose one of the available time slots"
		}

	case FieldCabType:
		if value == "" {
			return "Please select a cab type"
		}

	case FieldBookingType:
		if value == "" {
			return "Please select a booking type"
		}
		if !BookingType(value).IsValid() {
			return "Please select a booking type"
		}
	}

	return ""
}

// ValidateDraft validates every currently-required field and returns the
// per-field error messages. An empty map means the draft is submittable.
func ValidateDraft(d Draft, now time.Time) map[Field]string {
	errs := make(map[Field]string)
	for _, field := range RequiredFields(BookingType(d.BookingType)) {
		if msg := ValidateField(d, field, now); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}
