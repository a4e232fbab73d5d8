// Package geocoder adapts a map search box's callback contract
// (forwardGeocode, reverseGeocode, getSuggestions, searchByPlaceId) to a
// geocoding backend and keeps the search filters the box applies.
//
// Backends live in sub-packages and register themselves on import:
//
//	import _ "github.com/mohammed-shakir/location-geocoder/pkg/geocoder/geoplaces"
package geocoder

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder/filter"
)

var (
	ErrMissingForwardGeocode = errors.New("geocoder: the API must define at least ForwardGeocode; use Build to wire a backend client")
	ErrUnsupportedClient     = errors.New("geocoder: unsupported backend client")
	ErrAmbiguousClient       = errors.New("geocoder: backend client matches more than one backend")
	ErrMissingPlacesIndex    = errors.New("geocoder: PlacesIndex is required in options for the place index backend")
)

// Geocoder owns one API, its filter state and the widget control that
// mirrors the filters.
type Geocoder struct {
	api       API
	serviceID string
	filters   *filter.State
	control   *Control
	logger    *slog.Logger
}

// Build discriminates client by kind, wires the enabled operations and
// returns the assembled geocoder.
func Build(client any, opts Options, logger *slog.Logger) (*Geocoder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	matches := matchBackends(client)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %T (registered: %s)", ErrUnsupportedClient, client, strings.Join(ServiceIDs(), ", "))
	case 1:
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ServiceID
		}
		return nil, fmt.Errorf("%w: %T matches %s", ErrAmbiguousClient, client, strings.Join(ids, ", "))
	}
	backend := matches[0]

	blog := logger.With("service", backend.ServiceID)
	api, err := backend.NewAPI(client, opts, blog)
	if err != nil {
		return nil, fmt.Errorf("build %s api: %w", backend.ServiceID, err)
	}

	widget := opts.Widget
	if opts.ReverseGeocodeEnabled() {
		widget.ReverseGeocode = true
	}
	if opts.GetSuggestionsEnabled() {
		widget.ShowResultsWhileTyping = true
	}

	g, err := New(api, widget, blog)
	if err != nil {
		return nil, err
	}
	g.serviceID = backend.ServiceID
	blog.Info("geocoder built",
		"reverse_geocode", api.ReverseGeocode != nil,
		"search_by_place_id", api.SearchByPlaceID != nil,
		"get_suggestions", api.GetSuggestions != nil)
	return g, nil
}

// New assembles a geocoder around a hand-made API.
func New(api API, widget WidgetOptions, logger *slog.Logger) (*Geocoder, error) {
	if api.ForwardGeocode == nil {
		return nil, ErrMissingForwardGeocode
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if widget.Language == "" {
		widget.Language = "en"
	}

	control := newControl(api, widget)
	filters := filter.New(logger)
	filters.OnChange(control.apply)

	return &Geocoder{
		api:     api,
		filters: filters,
		control: control,
		logger:  logger,
	}, nil
}

func (g *Geocoder) API() API { return g.api }

// ServiceID names the backend kind; empty for geocoders made with New.
func (g *Geocoder) ServiceID() string { return g.serviceID }

// Operations names the wired callbacks.
func (g *Geocoder) Operations() []string {
	ops := []string{"forwardGeocode"}
	if g.api.ReverseGeocode != nil {
		ops = append(ops, "reverseGeocode")
	}
	if g.api.GetSuggestions != nil {
		ops = append(ops, "getSuggestions")
	}
	if g.api.SearchByPlaceID != nil {
		ops = append(ops, "searchByPlaceId")
	}
	return ops
}

// Readiness reports a built geocoder as ready.
func (g *Geocoder) Readiness() (bool, string, []string) {
	if g == nil {
		return false, "", nil
	}
	return true, g.serviceID, g.Operations()
}

// Control returns the widget control fed by this geocoder.
func (g *Geocoder) Control() *Control { return g.control }

func (g *Geocoder) Filters() filter.Snapshot { return g.filters.Snapshot() }

func (g *Geocoder) SetCategoryFilter(categories []filter.Category) bool {
	return g.filters.SetCategoryFilter(categories)
}

func (g *Geocoder) AddCategoryFilter(category string) bool {
	return g.filters.AddCategoryFilter(category)
}

func (g *Geocoder) ClearCategoryFilter() { g.filters.ClearCategoryFilter() }

func (g *Geocoder) CategoryFilter() []filter.Category { return g.filters.CategoryFilter() }

func (g *Geocoder) SetCountryFilter(countries []string) bool {
	return g.filters.SetCountryFilter(countries)
}

func (g *Geocoder) AddCountryFilter(country string) bool {
	return g.filters.AddCountryFilter(country)
}

func (g *Geocoder) ClearCountryFilter() { g.filters.ClearCountryFilter() }

func (g *Geocoder) CountryFilter() []string { return g.filters.CountryFilter() }

func (g *Geocoder) SetBoundingBox(b filter.BoundingBox) { g.filters.SetBoundingBox(b) }

func (g *Geocoder) ClearBoundingBox() { g.filters.ClearBoundingBox() }

func (g *Geocoder) BoundingBox() (filter.BoundingBox, bool) { return g.filters.BoundingBox() }

func (g *Geocoder) SetBiasPosition(p filter.Position) { g.filters.SetBiasPosition(p) }

func (g *Geocoder) ClearBiasPosition() { g.filters.ClearBiasPosition() }

func (g *Geocoder) BiasPosition() (filter.Position, bool) { return g.filters.BiasPosition() }

func (g *Geocoder) ClearFilters() { g.filters.ClearFilters() }
