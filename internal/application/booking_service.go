package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/domain/booking"
	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// ValidationResult is the advisory validation outcome for a booking draft.
type ValidationResult struct {
	Valid          bool              `json:"valid"`
	Progress       float64           `json:"progress"`
	RequiredFields []booking.Field   `json:"required_fields"`
	Errors         map[string]string `json:"errors"`
}

// SubmitResult carries everything the caller needs to open the messaging
// deep-link. The booking counts as sent once the link is opened; there is no
// delivery confirmation.
type SubmitResult struct {
	Message     string       `json:"message"`
	WhatsAppURL string       `json:"whatsapp_url"`
	Links       geo.MapLinks `json:"links"`
}

// BookingService orchestrates draft validation and submission. All
// validation is advisory and client-equivalent; final confirmation happens
// out-of-band with a human operator over WhatsApp.
type BookingService struct {
	whatsAppNumber string
	now            func() time.Time
	logger         *zap.Logger
}

// NewBookingService creates a BookingService submitting to the given
// operator WhatsApp number.
func NewBookingService(whatsAppNumber string, logger *zap.Logger) *BookingService {
	return &BookingService{
		whatsAppNumber: whatsAppNumber,
		now:            time.Now,
		logger:         logger,
	}
}

// Validate runs every currently-required field validator against the draft
// and reports errors, progress, and overall validity. Validity and the
// progress gate agree by construction: both derive from the same
// required-field set.
func (s *BookingService) Validate(ctx context.Context, draft booking.Draft) ValidationResult {
	errs := booking.ValidateDraft(draft, s.now())
	return ValidationResult{
		Valid:          len(errs) == 0 && draft.Progress() == 100,
		Progress:       draft.Progress(),
		RequiredFields: booking.RequiredFields(booking.BookingType(draft.BookingType)),
		Errors:         fieldErrors(errs),
	}
}

// Submit re-validates the draft and, when clean, builds the structured
// booking message and its WhatsApp deep-link. A failed validation returns
// booking.ErrValidationFailed alongside the per-field messages; the caller's
// draft is untouched either way.
func (s *BookingService) Submit(ctx context.Context, draft booking.Draft) (SubmitResult, ValidationResult, error) {
	validation := s.Validate(ctx, draft)
	if !validation.Valid {
		return SubmitResult{}, validation, booking.ErrValidationFailed
	}

	sub := booking.BuildSubmission(draft)

	s.logger.Info("booking request submitted",
		zap.String("booking_type", draft.BookingType),
		zap.String("date", draft.Date),
		zap.String("time", draft.Time),
		zap.Bool("pickup_coordinate", draft.PickupCoordinate != nil),
		zap.Bool("drop_coordinate", draft.DropCoordinate != nil),
	)

	return SubmitResult{
		Message:     sub.Message,
		WhatsAppURL: booking.WhatsAppURL(s.whatsAppNumber, sub.Message),
		Links:       sub.Links,
	}, validation, nil
}

// fieldErrors converts the domain error map to string keys for transport.
func fieldErrors(errs map[booking.Field]string) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		out[string(field)] = msg
	}
	return out
}
