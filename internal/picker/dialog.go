package picker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
	"github.com/bangalorecabs/service-booking/pkg/debounce"
	"github.com/bangalorecabs/service-booking/pkg/maps"
)

// Searcher is the autocomplete capability the dialog queries. Provider
// failures are already degraded to an empty candidate list by the
// implementation, so the dialog never sees an error.
type Searcher interface {
	Search(ctx context.Context, query string, bias geo.Coordinate) []maps.Candidate
}

// SelectionEvent is emitted when the user picks a candidate: the label fills
// the paired text field and the coordinate fills the paired coordinate slot.
type SelectionEvent struct {
	Label      string         `json:"label"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

// DialogConfig configures a location-picker dialog.
type DialogConfig struct {
	// Bias favours autocomplete results near this coordinate.
	Bias geo.Coordinate
	// DebounceWait is the quiet period before a keystroke burst dispatches
	// one autocomplete query.
	DebounceWait time.Duration
	// LocateTimeout bounds the geolocation attempt on open.
	LocateTimeout time.Duration
	// Locator is the client geolocation capability; nil means unavailable.
	Locator Geolocator
	// OnSelect receives the selection event before the dialog closes.
	OnSelect func(SelectionEvent)
}

// Dialog composes a map Session, a debounced query dispatcher, and a
// Searcher into one open location-picker instance. The raw search text and
// the selected place ID are tracked separately, so editing the text after a
// selection cannot masquerade as a new selection.
type Dialog struct {
	mu        sync.Mutex
	session   *Session
	searcher  Searcher
	debouncer *debounce.Debouncer[string]
	bias      geo.Coordinate
	onSelect  func(SelectionEvent)
	logger    *zap.Logger

	searchText      string
	selectedPlaceID string
	candidates      []maps.Candidate

	// seq tags each dispatched query; responses carrying a stale tag are
	// dropped so out-of-order arrivals cannot clobber newer results.
	seq    uint64
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

// OpenDialog creates a dialog, runs its map session through style/load, and
// starts the geolocation attempt.
func OpenDialog(ctx context.Context, searcher Searcher, cfg DialogConfig, logger *zap.Logger) *Dialog {
	dctx, cancel := context.WithCancel(ctx)

	d := &Dialog{
		session:  NewSession(cfg.Locator, cfg.LocateTimeout, logger),
		searcher: searcher,
		bias:     cfg.Bias,
		onSelect: cfg.OnSelect,
		logger:   logger,
		ctx:      dctx,
		cancel:   cancel,
	}
	d.debouncer = debounce.New(cfg.DebounceWait, d.dispatch)

	d.session.StyleReady()
	d.session.Loaded(dctx)

	return d
}

// Session exposes the dialog's map session.
func (d *Dialog) Session() *Session {
	return d.session
}

// SearchText returns the current raw input text.
func (d *Dialog) SearchText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searchText
}

// SelectedPlaceID returns the provider place ID of the chosen candidate, or
// "" when nothing is selected.
func (d *Dialog) SelectedPlaceID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectedPlaceID
}

// Candidates returns the current suggestion list.
func (d *Dialog) Candidates() []maps.Candidate {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]maps.Candidate(nil), d.candidates...)
}

// Input records a keystroke-level change to the search text and schedules a
// debounced autocomplete query. Editing the text drops any prior selection.
func (d *Dialog) Input(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.searchText = query
	d.selectedPlaceID = ""
	d.mu.Unlock()

	d.debouncer.Call(query)
}

// dispatch performs one autocomplete round-trip for the query that survived
// the debounce window.
func (d *Dialog) dispatch(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	tag := d.seq
	ctx := d.ctx
	d.mu.Unlock()

	results := d.searcher.Search(ctx, query, d.bias)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || tag != d.seq {
		return
	}
	d.candidates = results
}

// Select picks a candidate from the current suggestion list: the marker and
// viewport move to it, the selection event is emitted, and the dialog closes.
func (d *Dialog) Select(placeID string) (SelectionEvent, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return SelectionEvent{}, fmt.Errorf("dialog is closed")
	}

	var chosen *maps.Candidate
	for i := range d.candidates {
		if d.candidates[i].PlaceID == placeID {
			chosen = &d.candidates[i]
			break
		}
	}
	if chosen == nil {
		d.mu.Unlock()
		return SelectionEvent{}, fmt.Errorf("unknown place candidate: %s", placeID)
	}

	d.selectedPlaceID = chosen.PlaceID
	d.searchText = chosen.Description
	event := SelectionEvent{Label: chosen.Description, Coordinate: chosen.Coordinate}
	d.mu.Unlock()

	d.session.SelectPlace(event.Coordinate)
	if d.onSelect != nil {
		d.onSelect(event)
	}
	d.Close()

	return event, nil
}

// Close cancels any pending debounce timer, invalidates in-flight
// autocomplete and geolocation callbacks, and disposes the map session.
// Closing twice is harmless.
func (d *Dialog) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.debouncer.Cancel()
	d.cancel()
	d.session.Dispose()
}

// Closed reports whether the dialog has been closed.
func (d *Dialog) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
