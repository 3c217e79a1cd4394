// Package picker implements the interactive location-picker: a map session
// state machine plus a dialog that wires debounced autocomplete search and
// place selection into it.
package picker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
)

// State is the lifecycle state of a map session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateDisposed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

const (
	// closeZoom is the fixed zoom applied on geolocation and place selection.
	closeZoom = 14
	// initialZoom is the wide world view before any position resolves.
	initialZoom = 2
)

// FallbackCenter is the deterministic city-center viewport used when
// geolocation is denied, unavailable, or times out.
var FallbackCenter = geo.Coordinate{Latitude: 12.9629, Longitude: 77.5775}

// Geolocator resolves the client's position. Implementations must honor the
// context deadline.
type Geolocator interface {
	Locate(ctx context.Context) (geo.Coordinate, error)
}

// Viewport is the visible map area: a center coordinate and zoom level.
type Viewport struct {
	Center geo.Coordinate `json:"center"`
	Zoom   float64        `json:"zoom"`
}

// Session owns one map viewport and one movable marker. Each open dialog
// owns exactly one Session; sessions are never shared and never revived
// after disposal. Geolocation resolves asynchronously, so every resolution
// is tagged with the session identity it was issued under and dropped if the
// session has since been disposed.
type Session struct {
	mu            sync.Mutex
	id            uuid.UUID
	state         State
	viewport      Viewport
	marker        *geo.Coordinate
	locator       Geolocator
	locateTimeout time.Duration
	logger        *zap.Logger
}

// NewSession creates an uninitialized session. locator may be nil when the
// client has no geolocation capability; the fallback center is used instead.
func NewSession(locator Geolocator, locateTimeout time.Duration, logger *zap.Logger) *Session {
	return &Session{
		id:            uuid.New(),
		state:         StateUninitialized,
		viewport:      Viewport{Zoom: initialZoom},
		locator:       locator,
		locateTimeout: locateTimeout,
		logger:        logger,
	}
}

// ID returns the session identity token.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Viewport returns the current viewport.
func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Marker returns the current marker coordinate, or nil when none is placed.
func (s *Session) Marker() *geo.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marker == nil {
		return nil
	}
	c := *s.marker
	return &c
}

// StyleReady signals that the map style resource and rendering surface are
// available, moving the session to Loading. Repeated signals are ignored so
// re-resolving dependencies cannot instantiate a second map.
func (s *Session) StyleReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUninitialized {
		return false
	}
	s.state = StateLoading
	return true
}

// Loaded handles the underlying map's loaded signal: the session becomes
// Ready and a single bounded geolocation attempt starts. The attempt always
// resolves the viewport, either to the located position or to the fallback
// city center, at the fixed close zoom.
func (s *Session) Loaded(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return false
	}
	s.state = StateReady
	sid := s.id
	s.mu.Unlock()

	go s.resolveInitialPosition(ctx, sid)
	return true
}

// resolveInitialPosition runs the geolocation attempt issued by Loaded.
func (s *Session) resolveInitialPosition(ctx context.Context, sid uuid.UUID) {
	coord := FallbackCenter
	if s.locator != nil {
		lctx, cancel := context.WithTimeout(ctx, s.locateTimeout)
		located, err := s.locator.Locate(lctx)
		cancel()
		switch {
		case err != nil:
			// Denial and unavailability are recovered locally, never surfaced.
			s.logger.Debug("geolocation unavailable, using fallback center",
				zap.String("session_id", sid.String()),
				zap.Error(err),
			)
		case !located.IsValid():
			s.logger.Warn("geolocator returned invalid coordinate, using fallback center",
				zap.String("session_id", sid.String()),
			)
		default:
			coord = located
		}
	}
	s.applyPosition(sid, coord)
}

// applyPosition recenters the viewport and places the marker, unless the
// session the position was resolved for has been disposed in the meantime.
func (s *Session) applyPosition(sid uuid.UUID, coord geo.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed || s.id != sid {
		return
	}
	s.viewport = Viewport{Center: coord, Zoom: closeZoom}
	c := coord
	s.marker = &c
}

// SelectPlace applies an external place-selected event: the previous marker
// is replaced and the viewport flies to the selected coordinate at the close
// zoom. The last selection always wins. Returns false unless the session is
// Ready.
func (s *Session) SelectPlace(coord geo.Coordinate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return false
	}
	s.viewport = Viewport{Center: coord, Zoom: closeZoom}
	c := coord
	s.marker = &c
	return true
}

// Dispose releases the session. No transition leaves Disposed, and any
// geolocation callback still in flight becomes a no-op.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisposed
}
