package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bangalorecabs/service-booking/internal/application"
	"github.com/bangalorecabs/service-booking/internal/domain/booking"
	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// BookingHandler handles HTTP requests for booking form operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("/types", h.ListTypes)
		bookings.GET("/time-slots", h.ListTimeSlots)
		bookings.POST("/validate", h.ValidateDraft)
		bookings.POST("/submit", h.SubmitDraft)
	}
}

// draftRequest is the wire form of a booking draft. Coordinates arrive only
// from picker selection events; hand-typed locations leave them null.
type draftRequest struct {
	Name        string `json:"name"`
	Pickup      string `json:"pickup"`
	Drop        string `json:"drop"`
	Mobile      string `json:"mobile"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	CabType     string `json:"cab_type"`
	BookingType string `json:"booking_type"`
	Notes       string `json:"notes"`

	PickupCoordinate *coordinateBody `json:"pickup_coordinate"`
	DropCoordinate   *coordinateBody `json:"drop_coordinate"`
}

type coordinateBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// toDraft converts the request into a domain draft, validating any supplied
// coordinates against the geographic range invariants.
func (r draftRequest) toDraft() (booking.Draft, error) {
	draft := booking.Draft{
		Name:        r.Name,
		Pickup:      r.Pickup,
		Drop:        r.Drop,
		Mobile:      r.Mobile,
		Date:        r.Date,
		Time:        r.Time,
		CabType:     r.CabType,
		BookingType: r.BookingType,
		Notes:       r.Notes,
	}
	if r.PickupCoordinate != nil {
		coord, err := geo.NewCoordinate(r.PickupCoordinate.Latitude, r.PickupCoordinate.Longitude)
		if err != nil {
			return booking.Draft{}, err
		}
		draft.PickupCoordinate = &coord
	}
	if r.DropCoordinate != nil {
		coord, err := geo.NewCoordinate(r.DropCoordinate.Latitude, r.DropCoordinate.Longitude)
		if err != nil {
			return booking.Draft{}, err
		}
		draft.DropCoordinate = &coord
	}
	return draft, nil
}

// ListTypes handles GET /api/v1/bookings/types.
func (h *BookingHandler) ListTypes(c *gin.Context) {
	respondOK(c, booking.AllTypes())
}

// ListTimeSlots handles GET /api/v1/bookings/time-slots.
func (h *BookingHandler) ListTimeSlots(c *gin.Context) {
	respondOK(c, booking.TimeSlots())
}

// ValidateDraft handles POST /api/v1/bookings/validate.
func (h *BookingHandler) ValidateDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	respondOK(c, h.service.Validate(c.Request.Context(), draft))
}

// SubmitDraft handles POST /api/v1/bookings/submit. A draft that fails
// validation comes back as 422 with the per-field messages; nothing is
// discarded server-side, so the caller can correct and retry.
func (h *BookingHandler) SubmitDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, validation, err := h.service.Submit(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, booking.ErrValidationFailed) {
			respondUnprocessable(c, "Some required fields are missing or contain errors", validation)
			return
		}
		respondBadRequest(c, err.Error())
		return
	}

	respondCreated(c, result)
}
