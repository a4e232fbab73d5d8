package geocoder

import (
	"context"
	"log/slog"
	"time"

	"github.com/mohammed-shakir/location-geocoder/internal/core/observability"
)

// Callbacks never fail: backend errors are logged and surface as empty
// results.
type (
	ForwardGeocodeFunc func(ctx context.Context, cfg GeocodeConfig) FeatureResults
	ReverseGeocodeFunc func(ctx context.Context, cfg GeocodeConfig) FeatureResults
	SuggestionsFunc    func(ctx context.Context, cfg GeocodeConfig) SuggestionResults
	PlaceFunc          func(ctx context.Context, cfg GeocodeConfig) PlaceResult
)

// API is the callback set the widget consumes. ForwardGeocode is mandatory,
// the rest are optional and nil when disabled.
type API struct {
	ForwardGeocode  ForwardGeocodeFunc
	ReverseGeocode  ReverseGeocodeFunc
	GetSuggestions  SuggestionsFunc
	SearchByPlaceID PlaceFunc
}

type Options struct {
	EnableAll                     bool
	EnableReverseGeocode          bool
	EnableSearchByPlaceID         bool
	EnableGetSuggestions          bool
	OmitSuggestionsWithoutPlaceID bool

	// PlacesIndex names the place index resource; only the index backend uses it.
	PlacesIndex string

	// Extra result fields requested from the places backend. Nil means the
	// backend package's defaults.
	ForwardGeocodeAdditionalFeatures  []string
	ReverseGeocodeAdditionalFeatures  []string
	SearchByPlaceIDAdditionalFeatures []string

	// Widget is forwarded to the control unmodified.
	Widget WidgetOptions
}

func (o Options) ReverseGeocodeEnabled() bool  { return o.EnableAll || o.EnableReverseGeocode }
func (o Options) SearchByPlaceIDEnabled() bool { return o.EnableAll || o.EnableSearchByPlaceID }
func (o Options) GetSuggestionsEnabled() bool  { return o.EnableAll || o.EnableGetSuggestions }

// WidgetOptions mirrors the passthrough options of the search box.
type WidgetOptions struct {
	Placeholder            string
	Zoom                   int
	MinLength              int
	Language               string
	Limit                  int
	ReverseGeocode         bool
	ShowResultsWhileTyping bool
}

// Call wraps one backend round trip: it records latency and, on failure,
// logs "Failed to <operation> with error: ..." so the caller can fall back
// to an empty result.
func Call(ctx context.Context, logger *slog.Logger, service, operation string, fn func(context.Context) error) bool {
	start := time.Now()
	err := fn(ctx)
	observability.ObserveBackendCall(service, operation, err, time.Since(start).Seconds())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to "+operation+" with error: "+err.Error(),
			"service", service,
			"operation", operation)
		return false
	}
	return true
}
