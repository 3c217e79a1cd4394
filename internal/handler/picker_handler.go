package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/application"
	"github.com/bangalorecabs/service-booking/internal/config"
	"github.com/bangalorecabs/service-booking/internal/domain/geo"
	"github.com/bangalorecabs/service-booking/internal/picker"
)

// PickerHandler exposes location-picker dialogs over HTTP. Every open dialog
// has its own uuid identity and its own map session, so concurrent pickup
// and drop pickers never share state.
type PickerHandler struct {
	mu      sync.Mutex
	dialogs map[uuid.UUID]*dialogEntry

	places *application.PlaceService
	cfg    config.PickerConfig
	bias   geo.Coordinate
	apiKey string
	logger *zap.Logger

	now func() time.Time
}

// dialogEntry tracks the last request that touched a dialog. Sessions whose
// clients navigated away never send DELETE, so the reaper evicts them on
// inactivity.
type dialogEntry struct {
	dialog     *picker.Dialog
	lastActive time.Time
}

// NewPickerHandler creates a new PickerHandler.
func NewPickerHandler(
	places *application.PlaceService,
	cfg config.PickerConfig,
	bias geo.Coordinate,
	apiKey string,
	logger *zap.Logger,
) *PickerHandler {
	return &PickerHandler{
		dialogs: make(map[uuid.UUID]*dialogEntry),
		places:  places,
		cfg:     cfg,
		bias:    bias,
		apiKey:  apiKey,
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterRoutes registers all picker session routes on the given router
// group.
func (h *PickerHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/picker/sessions")
	{
		sessions.POST("", h.OpenSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/input", h.Input)
		sessions.POST("/:id/select", h.Select)
		sessions.DELETE("/:id", h.CloseSession)
	}
}

type openSessionRequest struct {
	// Geolocation is the client's device position, when it granted access.
	// Absent, the map falls back to the city center.
	Geolocation *coordinateBody `json:"geolocation"`
}

type sessionResponse struct {
	SessionID  uuid.UUID       `json:"session_id"`
	State      string          `json:"state"`
	StyleURL   string          `json:"style_url"`
	Viewport   picker.Viewport `json:"viewport"`
	Marker     *geo.Coordinate `json:"marker,omitempty"`
	SearchText string          `json:"search_text"`
	Candidates any             `json:"candidates"`
}

// OpenSession handles POST /api/v1/picker/sessions.
func (h *PickerHandler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, err.Error())
		return
	}

	var locator picker.Geolocator
	if req.Geolocation != nil {
		coord, err := geo.NewCoordinate(req.Geolocation.Latitude, req.Geolocation.Longitude)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		locator = picker.StaticLocator{Coordinate: coord}
	}

	// The dialog outlives this request; its lifetime is bounded by the
	// close endpoint, not the HTTP context.
	dialog := picker.OpenDialog(context.Background(), h.places, picker.DialogConfig{
		Bias:          h.bias,
		DebounceWait:  h.cfg.DebounceWait,
		LocateTimeout: h.cfg.LocateTimeout,
		Locator:       locator,
	}, h.logger)

	id := dialog.Session().ID()
	h.mu.Lock()
	h.dialogs[id] = &dialogEntry{dialog: dialog, lastActive: h.now()}
	h.mu.Unlock()

	h.logger.Info("picker session opened", zap.String("session_id", id.String()))
	respondCreated(c, h.snapshot(dialog))
}

// GetSession handles GET /api/v1/picker/sessions/:id, returning the current
// map state and suggestion list.
func (h *PickerHandler) GetSession(c *gin.Context) {
	dialog, ok := h.lookup(c)
	if !ok {
		return
	}
	respondOK(c, h.snapshot(dialog))
}

// Input handles POST /api/v1/picker/sessions/:id/input. Keystroke-level
// updates land here; the debounced dispatcher coalesces them into provider
// queries.
func (h *PickerHandler) Input(c *gin.Context) {
	dialog, ok := h.lookup(c)
	if !ok {
		return
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	dialog.Input(body.Query)
	respondOK(c, h.snapshot(dialog))
}

// Select handles POST /api/v1/picker/sessions/:id/select. A successful
// selection emits the location event back to the caller and closes the
// session.
func (h *PickerHandler) Select(c *gin.Context) {
	dialog, ok := h.lookup(c)
	if !ok {
		return
	}

	var body struct {
		PlaceID string `json:"place_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := dialog.Select(body.PlaceID)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	h.remove(dialog.Session().ID())
	respondOK(c, event)
}

// CloseSession handles DELETE /api/v1/picker/sessions/:id.
func (h *PickerHandler) CloseSession(c *gin.Context) {
	dialog, ok := h.lookup(c)
	if !ok {
		return
	}

	dialog.Close()
	h.remove(dialog.Session().ID())
	respondOK(c, gin.H{"closed": true})
}

func (h *PickerHandler) lookup(c *gin.Context) (*picker.Dialog, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid session ID")
		return nil, false
	}

	h.mu.Lock()
	entry, ok := h.dialogs[id]
	if ok {
		entry.lastActive = h.now()
	}
	h.mu.Unlock()
	if !ok {
		respondNotFound(c, "picker session not found")
		return nil, false
	}
	return entry.dialog, true
}

func (h *PickerHandler) remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.dialogs, id)
	h.mu.Unlock()
}

// ReapIdle closes and removes every dialog untouched for longer than the
// configured idle timeout, and returns how many were evicted.
func (h *PickerHandler) ReapIdle() int {
	cutoff := h.now().Add(-h.cfg.IdleTimeout)

	h.mu.Lock()
	var idle []*picker.Dialog
	for id, entry := range h.dialogs {
		if entry.lastActive.Before(cutoff) {
			idle = append(idle, entry.dialog)
			delete(h.dialogs, id)
			h.logger.Info("reaped idle picker session", zap.String("session_id", id.String()))
		}
	}
	h.mu.Unlock()

	// Close outside the registry lock; disposal cancels in-flight work.
	for _, dialog := range idle {
		dialog.Close()
	}
	return len(idle)
}

// StartReaper runs ReapIdle on the given interval until ctx is cancelled.
func (h *PickerHandler) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.ReapIdle()
		}
	}
}

func (h *PickerHandler) snapshot(dialog *picker.Dialog) sessionResponse {
	session := dialog.Session()
	return sessionResponse{
		SessionID:  session.ID(),
		State:      session.State().String(),
		StyleURL:   picker.AuthorizeTileURL(picker.StyleURL(), h.apiKey),
		Viewport:   session.Viewport(),
		Marker:     session.Marker(),
		SearchText: dialog.SearchText(),
		Candidates: dialog.Candidates(),
	}
}
