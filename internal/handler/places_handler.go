package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bangalorecabs/service-booking/internal/application"
	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// PlacesHandler handles HTTP requests for place autocomplete.
type PlacesHandler struct {
	service     *application.PlaceService
	defaultBias geo.Coordinate
}

// NewPlacesHandler creates a new PlacesHandler. defaultBias is used when the
// caller supplies no bias location.
func NewPlacesHandler(service *application.PlaceService, defaultBias geo.Coordinate) *PlacesHandler {
	return &PlacesHandler{service: service, defaultBias: defaultBias}
}

// RegisterRoutes registers all places routes on the given router group.
func (h *PlacesHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/places/autocomplete", h.Autocomplete)
}

// Autocomplete handles GET /api/v1/places/autocomplete?input=&lat=&lng=.
// Provider failures surface as an empty candidate list, never as an error
// response.
func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	input := c.Query("input")

	bias := h.defaultBias
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			respondBadRequest(c, "lat and lng must be numbers")
			return
		}
		coord, err := geo.NewCoordinate(lat, lng)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		bias = coord
	}

	respondOK(c, h.service.Search(c.Request.Context(), input, bias))
}
