// Package geoplaces backs the geocoder with Amazon Location Geo Places.
package geoplaces

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/geoplaces"
	"github.com/aws/aws-sdk-go-v2/service/geoplaces/types"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

const (
	defaultForwardResults = 5
	maxSearchResults      = 100
	maxSuggestResults     = 20
)

// Client is the subset of *geoplaces.Client the adapter calls.
type Client interface {
	SearchText(ctx context.Context, in *sdk.SearchTextInput, optFns ...func(*sdk.Options)) (*sdk.SearchTextOutput, error)
	ReverseGeocode(ctx context.Context, in *sdk.ReverseGeocodeInput, optFns ...func(*sdk.Options)) (*sdk.ReverseGeocodeOutput, error)
	Suggest(ctx context.Context, in *sdk.SuggestInput, optFns ...func(*sdk.Options)) (*sdk.SuggestOutput, error)
	Autocomplete(ctx context.Context, in *sdk.AutocompleteInput, optFns ...func(*sdk.Options)) (*sdk.AutocompleteOutput, error)
	GetPlace(ctx context.Context, in *sdk.GetPlaceInput, optFns ...func(*sdk.Options)) (*sdk.GetPlaceOutput, error)
}

var _ Client = (*sdk.Client)(nil)

func init() {
	geocoder.Register(geocoder.Backend{
		ServiceID: sdk.ServiceID,
		Accepts: func(client any) bool {
			_, ok := client.(Client)
			return ok
		},
		NewAPI: func(client any, opts geocoder.Options, logger *slog.Logger) (geocoder.API, error) {
			return NewAPI(client.(Client), opts, logger)
		},
	})
}

type adapter struct {
	client Client
	logger *slog.Logger

	searchFeatures  []types.SearchTextAdditionalFeature
	reverseFeatures []types.ReverseGeocodeAdditionalFeature
	placeFeatures   []types.GetPlaceAdditionalFeature
}

// NewAPI wires forward and reverse geocoding, plus place lookup and
// suggestions when enabled. With OmitSuggestionsWithoutPlaceID set,
// suggestions come from Autocomplete, which only returns places.
func NewAPI(client Client, opts geocoder.Options, logger *slog.Logger) (geocoder.API, error) {
	if client == nil {
		return geocoder.API{}, fmt.Errorf("%w: nil geo places client", geocoder.ErrUnsupportedClient)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &adapter{
		client: client,
		logger: logger,
		searchFeatures: additionalFeatures(opts.ForwardGeocodeAdditionalFeatures,
			types.SearchTextAdditionalFeatureContact, types.SearchTextAdditionalFeatureTimeZone),
		reverseFeatures: additionalFeatures(opts.ReverseGeocodeAdditionalFeatures,
			types.ReverseGeocodeAdditionalFeatureTimeZone),
		placeFeatures: additionalFeatures(opts.SearchByPlaceIDAdditionalFeatures,
			types.GetPlaceAdditionalFeatureContact, types.GetPlaceAdditionalFeatureTimeZone),
	}

	api := geocoder.API{
		ForwardGeocode: a.forwardGeocode,
		ReverseGeocode: a.reverseGeocode,
	}
	if opts.SearchByPlaceIDEnabled() {
		api.SearchByPlaceID = a.searchByPlaceID
	}
	if opts.GetSuggestionsEnabled() {
		if opts.OmitSuggestionsWithoutPlaceID {
			api.GetSuggestions = a.autocomplete
		} else {
			api.GetSuggestions = a.suggest
		}
	}
	return api, nil
}

// additionalFeatures converts configured names; nil falls back to defaults.
func additionalFeatures[T ~string](names []string, defaults ...T) []T {
	if names == nil {
		return defaults
	}
	out := make([]T, len(names))
	for i, n := range names {
		out[i] = T(n)
	}
	return out
}

func (a *adapter) call(ctx context.Context, op string, fn func(context.Context) error) bool {
	return geocoder.Call(ctx, a.logger, sdk.ServiceID, op, fn)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func buildSearchText(cfg geocoder.GeocodeConfig, features []types.SearchTextAdditionalFeature) *sdk.SearchTextInput {
	in := &sdk.SearchTextInput{
		QueryText:          aws.String(cfg.Query),
		Language:           optional(cfg.FirstLanguage()),
		MaxResults:         aws.Int32(defaultForwardResults),
		AdditionalFeatures: features,
	}
	if n, ok := cfg.LimitWithin(maxSearchResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	if pos, ok := cfg.BiasPosition(); ok {
		in.BiasPosition = pos
	}
	bbox, hasBBox := cfg.BoundingBox()
	countries := cfg.CountryList()
	if hasBBox || len(countries) > 0 {
		in.Filter = &types.SearchTextFilter{BoundingBox: bbox, IncludeCountries: countries}
	}
	return in
}

func buildReverseGeocode(cfg geocoder.GeocodeConfig, features []types.ReverseGeocodeAdditionalFeature) *sdk.ReverseGeocodeInput {
	in := &sdk.ReverseGeocodeInput{
		QueryPosition:      cfg.QueryPosition,
		Language:           optional(cfg.FirstLanguage()),
		AdditionalFeatures: features,
	}
	if n, ok := cfg.LimitWithin(maxSearchResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	return in
}

func buildSuggest(cfg geocoder.GeocodeConfig) *sdk.SuggestInput {
	in := &sdk.SuggestInput{
		QueryText:          aws.String(cfg.Query),
		Language:           optional(cfg.FirstLanguage()),
		AdditionalFeatures: []types.SuggestAdditionalFeature{types.SuggestAdditionalFeatureCore},
	}
	if n, ok := cfg.LimitWithin(maxSuggestResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	if pos, ok := cfg.BiasPosition(); ok {
		in.BiasPosition = pos
	}
	bbox, hasBBox := cfg.BoundingBox()
	countries := cfg.CountryList()
	if hasBBox || len(countries) > 0 {
		in.Filter = &types.SuggestFilter{BoundingBox: bbox, IncludeCountries: countries}
	}
	return in
}

func buildAutocomplete(cfg geocoder.GeocodeConfig) *sdk.AutocompleteInput {
	in := &sdk.AutocompleteInput{
		QueryText:          aws.String(cfg.Query),
		Language:           optional(cfg.FirstLanguage()),
		AdditionalFeatures: []types.AutocompleteAdditionalFeature{types.AutocompleteAdditionalFeatureCore},
	}
	if n, ok := cfg.LimitWithin(maxSuggestResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	if pos, ok := cfg.BiasPosition(); ok {
		in.BiasPosition = pos
	}
	bbox, hasBBox := cfg.BoundingBox()
	countries := cfg.CountryList()
	if hasBBox || len(countries) > 0 {
		in.Filter = &types.AutocompleteFilter{BoundingBox: bbox, IncludeCountries: countries}
	}
	return in
}

func buildGetPlace(cfg geocoder.GeocodeConfig, features []types.GetPlaceAdditionalFeature) *sdk.GetPlaceInput {
	return &sdk.GetPlaceInput{
		PlaceId:            aws.String(cfg.Query),
		Language:           optional(cfg.FirstLanguage()),
		AdditionalFeatures: features,
	}
}

func (a *adapter) forwardGeocode(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.FeatureResults {
	var out *sdk.SearchTextOutput
	ok := a.call(ctx, "forwardGeocode", func(ctx context.Context) (err error) {
		out, err = a.client.SearchText(ctx, buildSearchText(cfg, a.searchFeatures))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptyFeatures()
	}
	return searchFeatures(out.ResultItems)
}

func (a *adapter) reverseGeocode(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.FeatureResults {
	var out *sdk.ReverseGeocodeOutput
	ok := a.call(ctx, "reverseGeocode", func(ctx context.Context) (err error) {
		out, err = a.client.ReverseGeocode(ctx, buildReverseGeocode(cfg, a.reverseFeatures))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptyFeatures()
	}
	return reverseFeatures(out.ResultItems)
}

func (a *adapter) suggest(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.SuggestionResults {
	var out *sdk.SuggestOutput
	ok := a.call(ctx, "getSuggestions", func(ctx context.Context) (err error) {
		out, err = a.client.Suggest(ctx, buildSuggest(cfg))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptySuggestions()
	}
	return suggestItems(out.ResultItems)
}

func (a *adapter) autocomplete(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.SuggestionResults {
	var out *sdk.AutocompleteOutput
	ok := a.call(ctx, "getSuggestions", func(ctx context.Context) (err error) {
		out, err = a.client.Autocomplete(ctx, buildAutocomplete(cfg))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptySuggestions()
	}
	return autocompleteItems(out.ResultItems)
}

func (a *adapter) searchByPlaceID(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.PlaceResult {
	if cfg.Query == "" {
		return geocoder.PlaceResult{}
	}
	var out *sdk.GetPlaceOutput
	ok := a.call(ctx, "searchByPlaceId", func(ctx context.Context) (err error) {
		out, err = a.client.GetPlace(ctx, buildGetPlace(cfg, a.placeFeatures))
		return err
	})
	if !ok || out == nil {
		return geocoder.PlaceResult{}
	}
	return placeResult(out)
}
