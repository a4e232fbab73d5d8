package geocoder

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	geojson "github.com/paulmach/go.geojson"
)

// LngLat is the widget's proximity object.
type LngLat struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// GeocodeConfig is what the widget hands to every callback. Types and
// Countries are comma-joined lists; Language holds the widget's language
// codes of which only the first is used.
type GeocodeConfig struct {
	Query         string    `json:"query"`
	QueryPosition []float64 `json:"queryPosition,omitempty"`
	Language      []string  `json:"language"`
	Types         string    `json:"types"`
	Countries     string    `json:"countries"`
	Proximity     *LngLat   `json:"proximity,omitempty"`
	BBox          []float64 `json:"bbox"`
	Limit         int       `json:"limit,omitempty"`
}

// FirstLanguage returns Language[0] or "".
func (c GeocodeConfig) FirstLanguage() string {
	if len(c.Language) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Language[0])
}

// CountryList splits Countries on commas, dropping blanks.
func (c GeocodeConfig) CountryList() []string {
	return SplitList(c.Countries)
}

// TypeList splits Types on commas, dropping blanks.
func (c GeocodeConfig) TypeList() []string {
	return SplitList(c.Types)
}

// BoundingBox returns BBox when it holds exactly [west,south,east,north].
func (c GeocodeConfig) BoundingBox() ([]float64, bool) {
	if len(c.BBox) != 4 {
		return nil, false
	}
	return c.BBox, true
}

// BiasPosition returns the proximity as [lon,lat].
func (c GeocodeConfig) BiasPosition() ([]float64, bool) {
	if c.Proximity == nil {
		return nil, false
	}
	return []float64{c.Proximity.Longitude, c.Proximity.Latitude}, true
}

// LimitWithin returns Limit capped at ceiling; false when no limit is set.
func (c GeocodeConfig) LimitWithin(ceiling int) (int32, bool) {
	if c.Limit <= 0 {
		return 0, false
	}
	if c.Limit > ceiling {
		return int32(ceiling), true
	}
	return int32(c.Limit), true
}

func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Feature is a Carmen GeoJSON feature as rendered by the widget.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id,omitempty"`
	Geometry   *geojson.Geometry `json:"geometry"`
	PlaceName  string            `json:"place_name"`
	Text       string            `json:"text"`
	PlaceType  []string          `json:"place_type,omitempty"`
	Center     []float64         `json:"center"`
	Properties any               `json:"properties"`
}

// NewFeature builds a point feature. It reports false when the point is not
// [lon,lat] or the label is empty, in which case the record must be skipped.
func NewFeature(id, label string, point []float64, placeType []string, props any) (Feature, bool) {
	if len(point) != 2 || label == "" {
		return Feature{}, false
	}
	center := []float64{point[0], point[1]}
	if id == "" {
		id = FeatureID(label, center)
	}
	return Feature{
		Type:       "Feature",
		ID:         id,
		Geometry:   geojson.NewPointGeometry([]float64{point[0], point[1]}),
		PlaceName:  label,
		Text:       label,
		PlaceType:  placeType,
		Center:     center,
		Properties: props,
	}, true
}

// FeatureID derives a stable id for records the backend returns without one.
func FeatureID(label string, point []float64) string {
	key := label
	if len(point) == 2 {
		key = fmt.Sprintf("%s|%.6f,%.6f", label, point[0], point[1])
	}
	return fmt.Sprintf("f:%016x", xxhash.Sum64String(key))
}

type FeatureResults struct {
	Features []Feature `json:"features"`
}

// Suggestion carries a nil PlaceID for free-text query suggestions.
type Suggestion struct {
	Text    string  `json:"text"`
	PlaceID *string `json:"placeId"`
}

type SuggestionResults struct {
	Suggestions []Suggestion `json:"suggestions"`
}

type PlaceResult struct {
	Place *Feature `json:"place"`
}

func EmptyFeatures() FeatureResults { return FeatureResults{Features: []Feature{}} }

func EmptySuggestions() SuggestionResults { return SuggestionResults{Suggestions: []Suggestion{}} }
