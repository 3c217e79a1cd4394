package booking

import (
	"errors"
	"time"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// ErrValidationFailed is returned by Submit when any required field fails
// validation. The per-field messages are available through Errors.
var ErrValidationFailed = errors.New("booking draft has validation errors")

// FormState is the booking form state machine: the current draft, the
// touched-field set, and the per-field error map. It is the sole mutator of
// the draft and its coordinate slots; location pickers only emit selection
// events into it.
type FormState struct {
	draft   Draft
	touched map[Field]bool
	errors  map[Field]string
	now     func() time.Time
}

// NewFormState creates an empty form. now anchors date validation; pass
// time.Now outside tests.
func NewFormState(now func() time.Time) *FormState {
	if now == nil {
		now = time.Now
	}
	return &FormState{
		touched: make(map[Field]bool),
		errors:  make(map[Field]string),
		now:     now,
	}
}

// Draft returns a copy of the current draft.
func (f *FormState) Draft() Draft {
	return f.draft
}

// Errors returns a copy of the current per-field error messages.
func (f *FormState) Errors() map[Field]string {
	out := make(map[Field]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Touched reports whether the user has interacted with the field.
func (f *FormState) Touched(field Field) bool {
	return f.touched[field]
}

// SetField records a keystroke-level change. The field's error is cleared
// the instant its value changes, then re-validated if the field had already
// been touched before this change.
func (f *FormState) SetField(field Field, value string) {
	wasTouched := f.touched[field]

	f.draft.setFieldValue(field, value)
	f.touched[field] = true
	delete(f.errors, field)

	if wasTouched {
		if msg := ValidateField(f.draft, field, f.now()); msg != "" {
			f.errors[field] = msg
		}
	}
}

// Blur marks the field touched and validates it immediately.
func (f *FormState) Blur(field Field) {
	f.touched[field] = true
	if msg := ValidateField(f.draft, field, f.now()); msg != "" {
		f.errors[field] = msg
	} else {
		delete(f.errors, field)
	}
}

// SetPickupLocation applies a pickup selection event from a location picker:
// the label fills the pickup text field and the coordinate fills the pickup
// slot.
func (f *FormState) SetPickupLocation(label string, coord geo.Coordinate) {
	f.SetField(FieldPickup, label)
	f.draft.PickupCoordinate = &coord
}

// SetDropLocation applies a drop selection event from a location picker.
func (f *FormState) SetDropLocation(label string, coord geo.Coordinate) {
	f.SetField(FieldDrop, label)
	f.draft.DropCoordinate = &coord
}

// Progress returns the form-completion percentage for the current draft.
func (f *FormState) Progress() float64 {
	return f.draft.Progress()
}

// IsComplete reports whether every required field is filled. Submission is
// gated on the same rule.
func (f *FormState) IsComplete() bool {
	return f.draft.Progress() == 100
}

// Submit re-validates every currently-required field, and on success builds
// the outbound booking message and resets the form. On failure all required
// fields are marked touched, the errors are recorded, and the draft is left
// untouched so the user can correct and retry.
func (f *FormState) Submit() (Submission, error) {
	errs := ValidateDraft(f.draft, f.now())
	for _, field := range RequiredFields(BookingType(f.draft.BookingType)) {
		f.touched[field] = true
	}
	if len(errs) > 0 {
		f.errors = errs
		return Submission{}, ErrValidationFailed
	}

	sub := BuildSubmission(f.draft)

	// Reset only after the message is fully built: a failure anywhere above
	// must never discard entered data.
	f.draft = Draft{}
	f.touched = make(map[Field]bool)
	f.errors = make(map[Field]string)

	return sub, nil
}
