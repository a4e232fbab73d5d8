package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/location-geocoder/internal/logger"
	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

// ParseGeocodeRequest reads the widget config from query parameters:
// q, language (comma list), types, countries, bbox (west,south,east,north),
// proximity (lon,lat) and limit.
func ParseGeocodeRequest(v url.Values) (geocoder.GeocodeConfig, error) {
	cfg := geocoder.GeocodeConfig{
		Query:     strings.TrimSpace(v.Get("q")),
		Language:  geocoder.SplitList(v.Get("language")),
		Types:     strings.TrimSpace(v.Get("types")),
		Countries: strings.TrimSpace(v.Get("countries")),
	}

	if raw := strings.TrimSpace(v.Get("bbox")); raw != "" {
		bbox, err := parseBBOX(raw)
		if err != nil {
			return geocoder.GeocodeConfig{}, fmt.Errorf("invalid bbox: %w", err)
		}
		cfg.BBox = bbox
	}
	if raw := strings.TrimSpace(v.Get("proximity")); raw != "" {
		pos, err := ParseLonLat(raw)
		if err != nil {
			return geocoder.GeocodeConfig{}, fmt.Errorf("invalid proximity: %w", err)
		}
		cfg.Proximity = &geocoder.LngLat{Longitude: pos[0], Latitude: pos[1]}
	}
	if raw := strings.TrimSpace(v.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return geocoder.GeocodeConfig{}, errors.New("invalid limit: expected a positive integer")
		}
		cfg.Limit = n
	}
	return cfg, nil
}

func parseBBOX(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, errors.New("expected 4 comma-separated values: west,south,east,north")
	}
	out := make([]float64, 4)
	for i, p := range parts {
		f, err := parseFloat(p)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	west, south, east, north := out[0], out[1], out[2], out[3]
	if !(west >= -180 && west <= 180 && east >= -180 && east <= 180) {
		return nil, errors.New("longitude must be in [-180,180]")
	}
	if !(south >= -90 && south <= 90 && north >= -90 && north <= 90) {
		return nil, errors.New("latitude must be in [-90,90]")
	}
	if north <= south {
		return nil, errors.New("north must be greater than south")
	}
	return out, nil
}

// ParseLonLat reads "lon,lat" and range checks both values.
func ParseLonLat(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, errors.New("expected lon,lat")
	}
	lon, err := parseFloat(parts[0])
	if err != nil {
		return nil, fmt.Errorf("lon: %w", err)
	}
	lat, err := parseFloat(parts[1])
	if err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return nil, errors.New("position out of range")
	}
	return []float64{lon, lat}, nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	return f, nil
}

func (h *handlers) parse(w http.ResponseWriter, r *http.Request) (geocoder.GeocodeConfig, bool) {
	cfg, err := ParseGeocodeRequest(r.URL.Query())
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return geocoder.GeocodeConfig{}, false
	}
	return cfg, true
}

func (h *handlers) disabled(w http.ResponseWriter, r *http.Request, op string) {
	h.fail(w, r, http.StatusNotFound, op+" is not enabled")
}

func (h *handlers) forward(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.parse(w, r)
	if !ok {
		return
	}
	ctx := logger.WithOperation(r.Context(), "forwardGeocode")
	writeJSON(w, http.StatusOK, h.g.Control().Forward(ctx, cfg))
}

// reverse takes q as lon,lat.
func (h *handlers) reverse(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.parse(w, r)
	if !ok {
		return
	}
	pos, err := ParseLonLat(cfg.Query)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid q: "+err.Error())
		return
	}
	cfg.QueryPosition = pos
	ctx := logger.WithOperation(r.Context(), "reverseGeocode")
	res, enabled := h.g.Control().Reverse(ctx, cfg)
	if !enabled {
		h.disabled(w, r, "reverseGeocode")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) suggestions(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.parse(w, r)
	if !ok {
		return
	}
	ctx := logger.WithOperation(r.Context(), "getSuggestions")
	res, enabled := h.g.Control().Suggest(ctx, cfg)
	if !enabled {
		h.disabled(w, r, "getSuggestions")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) place(w http.ResponseWriter, r *http.Request) {
	cfg := geocoder.GeocodeConfig{
		Query:    chi.URLParam(r, "placeId"),
		Language: geocoder.SplitList(r.URL.Query().Get("language")),
	}
	ctx := logger.WithOperation(r.Context(), "searchByPlaceId")
	res, enabled := h.g.Control().Place(ctx, cfg)
	if !enabled {
		h.disabled(w, r, "searchByPlaceId")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
