// Package router maps the geocoder callbacks and filter mutators onto HTTP.
package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mohammed-shakir/location-geocoder/internal/core/observability"
	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

type handlers struct {
	logger *slog.Logger
	g      *geocoder.Geocoder
	val    *validator.Validate

	// countryTag validates country filter codes for the backend in use.
	countryTag string
}

// Mount registers the /geocode and /filters routes on r.
func Mount(r chi.Router, logger *slog.Logger, g *geocoder.Geocoder) {
	h := &handlers{
		logger:     logger,
		g:          g,
		val:        validator.New(validator.WithRequiredStructEnabled()),
		countryTag: countryTagFor(g.ServiceID()),
	}

	r.Route("/geocode", func(r chi.Router) {
		r.Get("/forward", instrument("/geocode/forward", h.forward))
		r.Get("/reverse", instrument("/geocode/reverse", h.reverse))
		r.Get("/suggestions", instrument("/geocode/suggestions", h.suggestions))
		r.Get("/places/{placeId}", instrument("/geocode/places/{placeId}", h.place))
	})

	r.Route("/filters", func(r chi.Router) {
		r.Get("/", instrument("/filters", h.snapshot))
		r.Delete("/", instrument("/filters", h.clearFilters))

		r.Put("/categories", instrument("/filters/categories", h.setCategories))
		r.Delete("/categories", instrument("/filters/categories", h.clearCategories))
		r.Post("/categories/{name}", instrument("/filters/categories/{name}", h.addCategory))

		r.Put("/countries", instrument("/filters/countries", h.setCountries))
		r.Delete("/countries", instrument("/filters/countries", h.clearCountries))
		r.Post("/countries/{code}", instrument("/filters/countries/{code}", h.addCountry))

		r.Put("/bbox", instrument("/filters/bbox", h.setBoundingBox))
		r.Delete("/bbox", instrument("/filters/bbox", h.clearBoundingBox))
		r.Put("/bias", instrument("/filters/bias", h.setBiasPosition))
		r.Delete("/bias", instrument("/filters/bias", h.clearBiasPosition))
	})
}

// instrument records the request under the route pattern, not the raw path.
func instrument(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		fn(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, code int, msg string) {
	h.logger.WarnContext(r.Context(), "request rejected",
		"path", r.URL.Path,
		"status", code,
		"reason", msg)
	writeJSON(w, code, errorBody{Error: msg})
}
