// Package location backs the geocoder with an Amazon Location place index.
package location

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/location"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder/filter"
)

// Per-call result ceilings accepted by the place index operations.
const (
	maxSearchResults     = 50
	maxSuggestionResults = 15
)

// Client is the subset of *location.Client the adapter calls.
type Client interface {
	SearchPlaceIndexForText(ctx context.Context, in *sdk.SearchPlaceIndexForTextInput, optFns ...func(*sdk.Options)) (*sdk.SearchPlaceIndexForTextOutput, error)
	SearchPlaceIndexForPosition(ctx context.Context, in *sdk.SearchPlaceIndexForPositionInput, optFns ...func(*sdk.Options)) (*sdk.SearchPlaceIndexForPositionOutput, error)
	SearchPlaceIndexForSuggestions(ctx context.Context, in *sdk.SearchPlaceIndexForSuggestionsInput, optFns ...func(*sdk.Options)) (*sdk.SearchPlaceIndexForSuggestionsOutput, error)
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
	client      Client
	index       string
	omitNoPlace bool
	logger      *slog.Logger
}

// NewAPI wires forward and reverse geocoding against opts.PlacesIndex, plus
// place lookup and suggestions when enabled.
func NewAPI(client Client, opts geocoder.Options, logger *slog.Logger) (geocoder.API, error) {
	if client == nil {
		return geocoder.API{}, fmt.Errorf("%w: nil location client", geocoder.ErrUnsupportedClient)
	}
	if opts.PlacesIndex == "" && (opts.SearchByPlaceIDEnabled() || opts.GetSuggestionsEnabled()) {
		return geocoder.API{}, geocoder.ErrMissingPlacesIndex
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &adapter{
		client:      client,
		index:       opts.PlacesIndex,
		omitNoPlace: opts.OmitSuggestionsWithoutPlaceID,
		logger:      logger,
	}

	api := geocoder.API{
		ForwardGeocode: a.forwardGeocode,
		ReverseGeocode: a.reverseGeocode,
	}
	if opts.SearchByPlaceIDEnabled() {
		api.SearchByPlaceID = a.searchByPlaceID
	}
	if opts.GetSuggestionsEnabled() {
		api.GetSuggestions = a.getSuggestions
	}
	return api, nil
}

func (a *adapter) call(ctx context.Context, op string, fn func(context.Context) error) bool {
	return geocoder.Call(ctx, a.logger, sdk.ServiceID, op, fn)
}

// optional returns nil for "" so the field is left out of the request.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// displayCategories turns compact category tokens into the names the place
// index filters on.
func displayCategories(cfg geocoder.GeocodeConfig) []string {
	tokens := cfg.TypeList()
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = filter.DisplayName(t)
	}
	return out
}

func buildSearchText(index string, cfg geocoder.GeocodeConfig) *sdk.SearchPlaceIndexForTextInput {
	in := &sdk.SearchPlaceIndexForTextInput{
		IndexName:        aws.String(index),
		Text:             aws.String(cfg.Query),
		Language:         optional(cfg.FirstLanguage()),
		FilterCountries:  cfg.CountryList(),
		FilterCategories: displayCategories(cfg),
	}
	if bbox, ok := cfg.BoundingBox(); ok {
		in.FilterBBox = bbox
	}
	if pos, ok := cfg.BiasPosition(); ok {
		in.BiasPosition = pos
	}
	if n, ok := cfg.LimitWithin(maxSearchResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	return in
}

func buildSearchPosition(index string, cfg geocoder.GeocodeConfig) *sdk.SearchPlaceIndexForPositionInput {
	in := &sdk.SearchPlaceIndexForPositionInput{
		IndexName: aws.String(index),
		Position:  cfg.QueryPosition,
		Language:  optional(cfg.FirstLanguage()),
	}
	if n, ok := cfg.LimitWithin(maxSearchResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	return in
}

func buildSuggestions(index string, cfg geocoder.GeocodeConfig) *sdk.SearchPlaceIndexForSuggestionsInput {
	in := &sdk.SearchPlaceIndexForSuggestionsInput{
		IndexName:        aws.String(index),
		Text:             aws.String(cfg.Query),
		Language:         optional(cfg.FirstLanguage()),
		FilterCountries:  cfg.CountryList(),
		FilterCategories: displayCategories(cfg),
	}
	if bbox, ok := cfg.BoundingBox(); ok {
		in.FilterBBox = bbox
	}
	if pos, ok := cfg.BiasPosition(); ok {
		in.BiasPosition = pos
	}
	if n, ok := cfg.LimitWithin(maxSuggestionResults); ok {
		in.MaxResults = aws.Int32(n)
	}
	return in
}

func buildGetPlace(index string, cfg geocoder.GeocodeConfig) *sdk.GetPlaceInput {
	return &sdk.GetPlaceInput{
		IndexName: aws.String(index),
		PlaceId:   aws.String(cfg.Query),
		Language:  optional(cfg.FirstLanguage()),
	}
}

func (a *adapter) forwardGeocode(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.FeatureResults {
	var out *sdk.SearchPlaceIndexForTextOutput
	ok := a.call(ctx, "forwardGeocode", func(ctx context.Context) (err error) {
		out, err = a.client.SearchPlaceIndexForText(ctx, buildSearchText(a.index, cfg))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptyFeatures()
	}
	return textFeatures(out.Results)
}

func (a *adapter) reverseGeocode(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.FeatureResults {
	var out *sdk.SearchPlaceIndexForPositionOutput
	ok := a.call(ctx, "reverseGeocode", func(ctx context.Context) (err error) {
		out, err = a.client.SearchPlaceIndexForPosition(ctx, buildSearchPosition(a.index, cfg))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptyFeatures()
	}
	return positionFeatures(out.Results)
}

func (a *adapter) getSuggestions(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.SuggestionResults {
	var out *sdk.SearchPlaceIndexForSuggestionsOutput
	ok := a.call(ctx, "getSuggestions", func(ctx context.Context) (err error) {
		out, err = a.client.SearchPlaceIndexForSuggestions(ctx, buildSuggestions(a.index, cfg))
		return err
	})
	if !ok || out == nil {
		return geocoder.EmptySuggestions()
	}
	return suggestions(out.Results, a.omitNoPlace)
}

func (a *adapter) searchByPlaceID(ctx context.Context, cfg geocoder.GeocodeConfig) geocoder.PlaceResult {
	var out *sdk.GetPlaceOutput
	ok := a.call(ctx, "searchByPlaceId", func(ctx context.Context) (err error) {
		out, err = a.client.GetPlace(ctx, buildGetPlace(a.index, cfg))
		return err
	})
	if !ok || out == nil {
		return geocoder.PlaceResult{}
	}
	return placeResult(cfg.Query, out.Place)
}
