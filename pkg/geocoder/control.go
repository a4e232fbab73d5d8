package geocoder

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder/filter"
)

// Control is the server-side counterpart of the search box: it keeps the
// filter values the box would hold (types, countries, bbox, proximity) and
// fills them into each request before invoking the API, the way the box does
// before calling a callback.
type Control struct {
	api     API
	options WidgetOptions

	mu        sync.RWMutex
	version   uint64
	types     string
	countries string
	bbox      []float64
	proximity *LngLat
}

func newControl(api API, options WidgetOptions) *Control {
	return &Control{api: api, options: options}
}

func (c *Control) Options() WidgetOptions { return c.options }

func (c *Control) SetTypes(types string) {
	c.mu.Lock()
	c.types = types
	c.mu.Unlock()
}

func (c *Control) Types() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types
}

func (c *Control) SetCountries(countries string) {
	c.mu.Lock()
	c.countries = countries
	c.mu.Unlock()
}

func (c *Control) Countries() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.countries
}

// SetBbox takes [west,south,east,north]; nil or empty clears it.
func (c *Control) SetBbox(bbox []float64) {
	c.mu.Lock()
	if len(bbox) == 0 {
		c.bbox = nil
	} else {
		c.bbox = slices.Clone(bbox)
	}
	c.mu.Unlock()
}

func (c *Control) Bbox() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.bbox)
}

// SetProximity with nil clears it.
func (c *Control) SetProximity(p *LngLat) {
	c.mu.Lock()
	if p == nil {
		c.proximity = nil
	} else {
		cp := *p
		c.proximity = &cp
	}
	c.mu.Unlock()
}

func (c *Control) Proximity() *LngLat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.proximity == nil {
		return nil
	}
	cp := *c.proximity
	return &cp
}

// apply pushes a filter snapshot into the control. A bounding box clears the
// proximity and vice versa. Snapshots older than the last applied one are
// ignored.
func (c *Control) apply(snap filter.Snapshot) {
	cats := make([]string, len(snap.Categories))
	for i, cat := range snap.Categories {
		cats[i] = string(cat)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.Version <= c.version {
		return
	}
	c.version = snap.Version
	c.types = strings.Join(cats, ",")
	c.countries = strings.Join(snap.Countries, ",")
	c.bbox = nil
	c.proximity = nil
	switch {
	case snap.BoundingBox != nil:
		c.bbox = snap.BoundingBox.Slice()
	case snap.BiasPosition != nil:
		c.proximity = &LngLat{Longitude: snap.BiasPosition.Longitude, Latitude: snap.BiasPosition.Latitude}
	}
}

// fill completes req with the control's state; values set on req win.
func (c *Control) fill(req GeocodeConfig) GeocodeConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(req.Language) == 0 && c.options.Language != "" {
		req.Language = []string{c.options.Language}
	}
	if req.Types == "" {
		req.Types = c.types
	}
	if req.Countries == "" {
		req.Countries = c.countries
	}
	if req.BBox == nil && req.Proximity == nil {
		req.BBox = slices.Clone(c.bbox)
		if c.proximity != nil {
			p := *c.proximity
			req.Proximity = &p
		}
	}
	if req.Limit == 0 {
		req.Limit = c.options.Limit
	}
	return req
}

func (c *Control) tooShort(query string) bool {
	return c.options.MinLength > 0 && len([]rune(strings.TrimSpace(query))) < c.options.MinLength
}

// Forward runs a text query. In reverse geocode mode a "lat,lon" query is
// sent to ReverseGeocode instead.
func (c *Control) Forward(ctx context.Context, req GeocodeConfig) FeatureResults {
	if c.options.ReverseGeocode && c.api.ReverseGeocode != nil {
		if pos, ok := ParseCoordinates(req.Query); ok {
			req.QueryPosition = pos
			return c.api.ReverseGeocode(ctx, c.fill(req))
		}
	}
	if c.tooShort(req.Query) {
		return EmptyFeatures()
	}
	return c.api.ForwardGeocode(ctx, c.fill(req))
}

// Reverse reports false when reverse geocoding is not wired.
func (c *Control) Reverse(ctx context.Context, req GeocodeConfig) (FeatureResults, bool) {
	if c.api.ReverseGeocode == nil {
		return FeatureResults{}, false
	}
	return c.api.ReverseGeocode(ctx, c.fill(req)), true
}

// Suggest reports false when suggestions are not enabled.
func (c *Control) Suggest(ctx context.Context, req GeocodeConfig) (SuggestionResults, bool) {
	if c.api.GetSuggestions == nil {
		return SuggestionResults{}, false
	}
	if c.tooShort(req.Query) {
		return EmptySuggestions(), true
	}
	return c.api.GetSuggestions(ctx, c.fill(req)), true
}

// Place reports false when place lookup is not enabled.
func (c *Control) Place(ctx context.Context, req GeocodeConfig) (PlaceResult, bool) {
	if c.api.SearchByPlaceID == nil {
		return PlaceResult{}, false
	}
	if len(req.Language) == 0 && c.options.Language != "" {
		req.Language = []string{c.options.Language}
	}
	return c.api.SearchByPlaceID(ctx, req), true
}

var coordPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[,\s]\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseCoordinates reads a "lat,lon" query, as typed into the search box,
// and returns it as [lon,lat].
func ParseCoordinates(q string) ([]float64, bool) {
	m := coordPattern.FindStringSubmatch(q)
	if m == nil {
		return nil, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, false
	}
	return []float64{lon, lat}, true
}
