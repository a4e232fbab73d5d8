// Package filter holds the search filters applied to geocoding requests:
// categories, countries and a position constraint that is either a bounding
// box or a bias position, never both.
package filter

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mohammed-shakir/location-geocoder/internal/core/observability"
)

const (
	MaxCategoryFilters = 10
	MaxCountryFilters  = 100
)

// BoundingBox is given by its south-west and north-east corners.
type BoundingBox struct {
	LongitudeSW float64 `json:"longitudeSW" validate:"gte=-180,lte=180"`
	LatitudeSW  float64 `json:"latitudeSW" validate:"gte=-90,lte=90"`
	LongitudeNE float64 `json:"longitudeNE" validate:"gte=-180,lte=180"`
	LatitudeNE  float64 `json:"latitudeNE" validate:"gte=-90,lte=90"`
}

// Slice returns the box as [west, south, east, north].
func (b BoundingBox) Slice() []float64 {
	return []float64{b.LongitudeSW, b.LatitudeSW, b.LongitudeNE, b.LatitudeNE}
}

type Position struct {
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
}

// Slice returns the position as [lon, lat].
func (p Position) Slice() []float64 {
	return []float64{p.Longitude, p.Latitude}
}

type constraint int

const (
	constraintNone constraint = iota
	constraintBBox
	constraintBias
)

// Snapshot is a copy of the state at one point in time. Version grows with
// every applied mutation, so listeners can drop snapshots that arrive late.
type Snapshot struct {
	Version      uint64       `json:"version"`
	Categories   []Category   `json:"categories"`
	Countries    []string     `json:"countries"`
	BoundingBox  *BoundingBox `json:"boundingBox"`
	BiasPosition *Position    `json:"biasPosition"`
}

// State is safe for concurrent use. Rejected mutations leave the state
// untouched, log a warning and report false.
type State struct {
	mu         sync.RWMutex
	logger     *slog.Logger
	categories []Category
	countries  []string
	kind       constraint
	bbox       BoundingBox
	bias       Position
	version    uint64
	onChange   func(Snapshot)
}

func New(logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &State{
		logger:     logger,
		categories: []Category{},
		countries:  []string{},
	}
}

// OnChange registers fn to receive a snapshot after every applied mutation.
// fn runs without the state lock held, so concurrent mutations may deliver
// snapshots out of order; compare Snapshot.Version.
func (s *State) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *State) reject(filter string, args ...any) {
	observability.IncFilterRejection(filter)
	s.logger.Warn(filter+" filter rejected", args...)
}

func (s *State) SetCategoryFilter(categories []Category) bool {
	if len(categories) > MaxCategoryFilters {
		s.reject("categories",
			"reason", "too many categories",
			"count", len(categories),
			"max", MaxCategoryFilters)
		return false
	}
	s.mutate(func() bool {
		s.categories = append([]Category{}, categories...)
		return true
	})
	return true
}

// AddCategoryFilter accepts a canonical token or display name, ignoring case
// and whitespace.
func (s *State) AddCategoryFilter(name string) bool {
	c, valid := ParseCategory(name)
	added, full := false, false
	s.mutate(func() bool {
		switch {
		case len(s.categories) >= MaxCategoryFilters:
			full = true
		case valid:
			s.categories = append(s.categories, c)
			added = true
		}
		return added
	})
	switch {
	case full:
		s.reject("categories",
			"reason", "already at max categories, remove one before adding another",
			"max", MaxCategoryFilters)
	case !valid:
		s.reject("categories",
			"reason", "not a valid category",
			"category", name)
	}
	return added
}

func (s *State) ClearCategoryFilter() {
	s.mutate(func() bool {
		s.categories = []Category{}
		return true
	})
}

func (s *State) CategoryFilter() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *State) SetCountryFilter(countries []string) bool {
	if len(countries) > MaxCountryFilters {
		s.reject("countries",
			"reason", "too many countries",
			"count", len(countries),
			"max", MaxCountryFilters)
		return false
	}
	normalized := make([]string, 0, len(countries))
	for _, c := range countries {
		normalized = append(normalized, normalizeCountry(c))
	}
	s.mutate(func() bool {
		s.countries = normalized
		return true
	})
	return true
}

func (s *State) AddCountryFilter(country string) bool {
	added := false
	s.mutate(func() bool {
		if len(s.countries) < MaxCountryFilters {
			s.countries = append(s.countries, normalizeCountry(country))
			added = true
		}
		return added
	})
	if !added {
		s.reject("countries",
			"reason", "already at max countries, remove one before adding another",
			"max", MaxCountryFilters)
	}
	return added
}

func (s *State) ClearCountryFilter() {
	s.mutate(func() bool {
		s.countries = []string{}
		return true
	})
}

func (s *State) CountryFilter() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.countries)
}

// SetBoundingBox replaces any bias position.
func (s *State) SetBoundingBox(b BoundingBox) {
	s.mutate(func() bool {
		s.kind = constraintBBox
		s.bbox = b
		s.bias = Position{}
		return true
	})
}

func (s *State) ClearBoundingBox() {
	s.mutate(func() bool {
		if s.kind != constraintBBox {
			return false
		}
		s.kind = constraintNone
		s.bbox = BoundingBox{}
		return true
	})
}

func (s *State) BoundingBox() (BoundingBox, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kind != constraintBBox {
		return BoundingBox{}, false
	}
	return s.bbox, true
}

// SetBiasPosition replaces any bounding box.
func (s *State) SetBiasPosition(p Position) {
	s.mutate(func() bool {
		s.kind = constraintBias
		s.bias = p
		s.bbox = BoundingBox{}
		return true
	})
}

func (s *State) ClearBiasPosition() {
	s.mutate(func() bool {
		if s.kind != constraintBias {
			return false
		}
		s.kind = constraintNone
		s.bias = Position{}
		return true
	})
}

func (s *State) BiasPosition() (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kind != constraintBias {
		return Position{}, false
	}
	return s.bias, true
}

func (s *State) ClearFilters() {
	s.mutate(func() bool {
		s.categories = []Category{}
		s.countries = []string{}
		s.kind = constraintNone
		s.bbox = BoundingBox{}
		s.bias = Position{}
		return true
	})
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:    s.version,
		Categories: slices.Clone(s.categories),
		Countries:  slices.Clone(s.countries),
	}
	switch s.kind {
	case constraintBBox:
		b := s.bbox
		snap.BoundingBox = &b
	case constraintBias:
		p := s.bias
		snap.BiasPosition = &p
	}
	return snap
}

// mutate applies fn under the write lock and notifies the listener when fn
// reports a change.
func (s *State) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	snap := s.snapshotLocked()
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}

func normalizeCountry(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
