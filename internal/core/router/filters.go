package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/location"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder/filter"
)

const maxBodyBytes = 64 << 10

// Limits are enforced by the filter state so that oversize lists answer 422
// with the same warning the state logs.
type categoriesBody struct {
	Categories []string `json:"categories" validate:"required,dive,required"`
}

type countriesBody struct {
	Countries []string `json:"countries" validate:"required"`
}

// The place index backend filters on alpha-3 codes only.
const (
	countryCodeTag       = "iso3166_1_alpha3|iso3166_1_alpha2"
	alpha3CountryCodeTag = "iso3166_1_alpha3"
)

func countryTagFor(serviceID string) string {
	if serviceID == location.ServiceID {
		return alpha3CountryCodeTag
	}
	return countryCodeTag
}

func (h *handlers) invalidCountry(w http.ResponseWriter, r *http.Request, code string) {
	msg := fmt.Sprintf("%q is not an ISO 3166 country code", code)
	if h.countryTag == alpha3CountryCodeTag {
		msg = fmt.Sprintf("%q is not an ISO 3166 alpha-3 country code", code)
	}
	h.fail(w, r, http.StatusBadRequest, msg)
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid body: "+err.Error())
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		h.fail(w, r, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return "invalid body: " + strings.Join(msgs, "; ")
}

func (h *handlers) snapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.g.Filters())
}

func (h *handlers) applied(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, h.g.Filters())
}

func (h *handlers) clearFilters(w http.ResponseWriter, _ *http.Request) {
	h.g.ClearFilters()
	h.applied(w)
}

func (h *handlers) setCategories(w http.ResponseWriter, r *http.Request) {
	var body categoriesBody
	if !h.decode(w, r, &body) {
		return
	}
	cats := make([]filter.Category, 0, len(body.Categories))
	for _, name := range body.Categories {
		c, ok := filter.ParseCategory(name)
		if !ok {
			h.fail(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("%s is not a valid category", name))
			return
		}
		cats = append(cats, c)
	}
	if !h.g.SetCategoryFilter(cats) {
		h.fail(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("too many categories, max is %d", filter.MaxCategoryFilters))
		return
	}
	h.applied(w)
}

func (h *handlers) addCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.g.AddCategoryFilter(name) {
		h.fail(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("category %q rejected: unknown or already at max %d", name, filter.MaxCategoryFilters))
		return
	}
	h.applied(w)
}

func (h *handlers) clearCategories(w http.ResponseWriter, _ *http.Request) {
	h.g.ClearCategoryFilter()
	h.applied(w)
}

func (h *handlers) setCountries(w http.ResponseWriter, r *http.Request) {
	var body countriesBody
	if !h.decode(w, r, &body) {
		return
	}
	codes := make([]string, len(body.Countries))
	for i, c := range body.Countries {
		codes[i] = strings.ToUpper(strings.TrimSpace(c))
		if err := h.val.Var(codes[i], h.countryTag); err != nil {
			h.invalidCountry(w, r, c)
			return
		}
	}
	if !h.g.SetCountryFilter(codes) {
		h.fail(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("too many countries, max is %d", filter.MaxCountryFilters))
		return
	}
	h.applied(w)
}

func (h *handlers) addCountry(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if err := h.val.Var(code, h.countryTag); err != nil {
		h.invalidCountry(w, r, code)
		return
	}
	if !h.g.AddCountryFilter(code) {
		h.fail(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("already at max countries %d", filter.MaxCountryFilters))
		return
	}
	h.applied(w)
}

func (h *handlers) clearCountries(w http.ResponseWriter, _ *http.Request) {
	h.g.ClearCountryFilter()
	h.applied(w)
}

func (h *handlers) setBoundingBox(w http.ResponseWriter, r *http.Request) {
	var body filter.BoundingBox
	if !h.decode(w, r, &body) {
		return
	}
	h.g.SetBoundingBox(body)
	h.applied(w)
}

func (h *handlers) clearBoundingBox(w http.ResponseWriter, _ *http.Request) {
	h.g.ClearBoundingBox()
	h.applied(w)
}

func (h *handlers) setBiasPosition(w http.ResponseWriter, r *http.Request) {
	var body filter.Position
	if !h.decode(w, r, &body) {
		return
	}
	h.g.SetBiasPosition(body)
	h.applied(w)
}

func (h *handlers) clearBiasPosition(w http.ResponseWriter, _ *http.Request) {
	h.g.ClearBiasPosition()
	h.applied(w)
}
