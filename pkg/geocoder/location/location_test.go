package location

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/location"
	"github.com/aws/aws-sdk-go-v2/service/location/types"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

type fakeClient struct {
	err error

	textIn     *sdk.SearchPlaceIndexForTextInput
	positionIn *sdk.SearchPlaceIndexForPositionInput
	suggestIn  *sdk.SearchPlaceIndexForSuggestionsInput
	placeIn    *sdk.GetPlaceInput

	text     []types.SearchForTextResult
	position []types.SearchForPositionResult
	suggest  []types.SearchForSuggestionsResult
	place    *types.Place
}

func (f *fakeClient) SearchPlaceIndexForText(_ context.Context, in *sdk.SearchPlaceIndexForTextInput, _ ...func(*sdk.Options)) (*sdk.SearchPlaceIndexForTextOutput, error) {
	f.textIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.SearchPlaceIndexForTextOutput{Results: f.text}, nil
}

func (f *fakeClient) SearchPlaceIndexForPosition(_ context.Context, in *sdk.SearchPlaceIndexForPositionInput, _ ...func(*sdk.Options)) (*sdk.SearchPlaceIndexForPositionOutput, error) {
	f.positionIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.SearchPlaceIndexForPositionOutput{Results: f.position}, nil
}

func (f *fakeClient) SearchPlaceIndexForSuggestions(_ context.Context, in *sdk.SearchPlaceIndexForSuggestionsInput, _ ...func(*sdk.Options)) (*sdk.SearchPlaceIndexForSuggestionsOutput, error) {
	f.suggestIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.SearchPlaceIndexForSuggestionsOutput{Results: f.suggest}, nil
}

func (f *fakeClient) GetPlace(_ context.Context, in *sdk.GetPlaceInput, _ ...func(*sdk.Options)) (*sdk.GetPlaceOutput, error) {
	f.placeIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.GetPlaceOutput{Place: f.place}, nil
}

func fakePlace() *types.Place {
	return &types.Place{
		Label:    aws.String("A fake place"),
		Geometry: &types.PlaceGeometry{Point: []float64{-123, 45}},
	}
}

func allOptions() geocoder.Options {
	return geocoder.Options{EnableAll: true, PlacesIndex: "TestPlaceIndex"}
}

func newAPI(t *testing.T, c Client, opts geocoder.Options, logs *bytes.Buffer) geocoder.API {
	t.Helper()
	var h slog.Handler = slog.DiscardHandler
	if logs != nil {
		h = slog.NewTextHandler(logs, nil)
	}
	api, err := NewAPI(c, opts, slog.New(h))
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	return api
}

func baseConfig() geocoder.GeocodeConfig {
	return geocoder.GeocodeConfig{Query: "x", Language: []string{"en"}}
}

func TestForwardGeocode_FakePlace(t *testing.T) {
	c := &fakeClient{text: []types.SearchForTextResult{{Place: fakePlace()}}}
	api := newAPI(t, c, allOptions(), nil)

	res := api.ForwardGeocode(context.Background(), baseConfig())
	if len(res.Features) != 1 {
		t.Fatalf("features=%d want 1", len(res.Features))
	}
	f := res.Features[0]
	if f.PlaceName != "A fake place" || f.Text != "A fake place" {
		t.Fatalf("unexpected labels: %+v", f)
	}
	if !reflect.DeepEqual(f.Center, []float64{-123, 45}) {
		t.Fatalf("center=%v", f.Center)
	}
	if f.Geometry == nil || !reflect.DeepEqual(f.Geometry.Point, []float64{-123, 45}) {
		t.Fatalf("geometry=%+v", f.Geometry)
	}
	if !reflect.DeepEqual(f.PlaceType, []string{"place"}) {
		t.Fatalf("place_type=%v", f.PlaceType)
	}

	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"geometry":{"type":"Point","coordinates":[-123,45]}`) {
		t.Fatalf("unexpected geometry json: %s", raw)
	}
	if !strings.Contains(string(raw), `"Label":"A fake place"`) {
		t.Fatalf("properties should carry the backend record: %s", raw)
	}

	in := c.textIn
	if aws.ToString(in.IndexName) != "TestPlaceIndex" || aws.ToString(in.Text) != "x" || aws.ToString(in.Language) != "en" {
		t.Fatalf("unexpected request: %+v", in)
	}
	if in.FilterCountries != nil || in.FilterCategories != nil || in.FilterBBox != nil || in.BiasPosition != nil || in.MaxResults != nil {
		t.Fatalf("empty config should not set filters: %+v", in)
	}
}

func TestForwardGeocode_RequestFilters(t *testing.T) {
	c := &fakeClient{}
	api := newAPI(t, c, allOptions(), nil)

	cfg := baseConfig()
	cfg.Countries = "USA,CAN"
	cfg.Types = "CoffeeShop,ATM,Bank"
	cfg.BBox = []float64{-124, 44, -122, 46}
	cfg.Limit = 80
	api.ForwardGeocode(context.Background(), cfg)

	in := c.textIn
	if !reflect.DeepEqual(in.FilterCountries, []string{"USA", "CAN"}) {
		t.Fatalf("countries=%v", in.FilterCountries)
	}
	if !reflect.DeepEqual(in.FilterCategories, []string{"Coffee Shop", "ATM", "Bank"}) {
		t.Fatalf("categories=%v", in.FilterCategories)
	}
	if !reflect.DeepEqual(in.FilterBBox, []float64{-124, 44, -122, 46}) {
		t.Fatalf("bbox=%v", in.FilterBBox)
	}
	if aws.ToInt32(in.MaxResults) != maxSearchResults {
		t.Fatalf("max results=%d want %d", aws.ToInt32(in.MaxResults), maxSearchResults)
	}
	if in.BiasPosition != nil {
		t.Fatalf("bias set without proximity: %v", in.BiasPosition)
	}
}

func TestForwardGeocode_BiasAndShortBBox(t *testing.T) {
	c := &fakeClient{}
	api := newAPI(t, c, allOptions(), nil)

	cfg := baseConfig()
	cfg.BBox = []float64{1, 2, 3}
	cfg.Proximity = &geocoder.LngLat{Longitude: -123, Latitude: 45}
	api.ForwardGeocode(context.Background(), cfg)

	if c.textIn.FilterBBox != nil {
		t.Fatalf("3-value bbox forwarded: %v", c.textIn.FilterBBox)
	}
	if !reflect.DeepEqual(c.textIn.BiasPosition, []float64{-123, 45}) {
		t.Fatalf("bias=%v", c.textIn.BiasPosition)
	}
}

func TestForwardGeocode_SkipsIncompleteRecords(t *testing.T) {
	c := &fakeClient{text: []types.SearchForTextResult{
		{Place: nil},
		{Place: &types.Place{Label: aws.String("no geometry")}},
		{Place: &types.Place{Geometry: &types.PlaceGeometry{Point: []float64{1, 2}}}},
		{Place: fakePlace(), PlaceId: aws.String("pid-1")},
	}}
	api := newAPI(t, c, allOptions(), nil)

	res := api.ForwardGeocode(context.Background(), baseConfig())
	if len(res.Features) != 1 {
		t.Fatalf("features=%d want 1", len(res.Features))
	}
	if res.Features[0].ID != "pid-1" {
		t.Fatalf("id=%q want pid-1", res.Features[0].ID)
	}
}

func TestReverseGeocode_Request(t *testing.T) {
	c := &fakeClient{position: []types.SearchForPositionResult{{Place: fakePlace(), PlaceId: aws.String("rev-1")}}}
	api := newAPI(t, c, allOptions(), nil)

	cfg := geocoder.GeocodeConfig{QueryPosition: []float64{-123, 45}, Language: []string{"fr"}, Limit: 2}
	res := api.ReverseGeocode(context.Background(), cfg)

	if len(res.Features) != 1 || res.Features[0].ID != "rev-1" {
		t.Fatalf("unexpected features: %+v", res.Features)
	}
	in := c.positionIn
	if !reflect.DeepEqual(in.Position, []float64{-123, 45}) || aws.ToString(in.Language) != "fr" || aws.ToInt32(in.MaxResults) != 2 {
		t.Fatalf("unexpected request: %+v", in)
	}
}

func TestSuggestions_OmitWithoutPlaceID(t *testing.T) {
	results := []types.SearchForSuggestionsResult{
		{Text: aws.String("coffee"), PlaceId: nil},
		{Text: aws.String("Coffee Co, Main St"), PlaceId: aws.String("p-1")},
	}

	c := &fakeClient{suggest: results}
	api := newAPI(t, c, allOptions(), nil)
	res := api.GetSuggestions(context.Background(), baseConfig())
	if len(res.Suggestions) != 2 {
		t.Fatalf("suggestions=%d want 2", len(res.Suggestions))
	}
	if res.Suggestions[0].PlaceID != nil {
		t.Fatalf("query suggestion carries place id: %v", *res.Suggestions[0].PlaceID)
	}

	opts := allOptions()
	opts.OmitSuggestionsWithoutPlaceID = true
	c = &fakeClient{suggest: results}
	api = newAPI(t, c, opts, nil)
	res = api.GetSuggestions(context.Background(), baseConfig())
	if len(res.Suggestions) != 1 || aws.ToString(res.Suggestions[0].PlaceID) != "p-1" {
		t.Fatalf("unexpected suggestions: %+v", res.Suggestions)
	}
}

func TestSuggestions_Request(t *testing.T) {
	c := &fakeClient{}
	api := newAPI(t, c, allOptions(), nil)

	cfg := baseConfig()
	cfg.Types = "EVChargingStation"
	cfg.Limit = 40
	api.GetSuggestions(context.Background(), cfg)

	in := c.suggestIn
	if !reflect.DeepEqual(in.FilterCategories, []string{"EV Charging Station"}) {
		t.Fatalf("categories=%v", in.FilterCategories)
	}
	if aws.ToInt32(in.MaxResults) != maxSuggestionResults {
		t.Fatalf("max results=%d want %d", aws.ToInt32(in.MaxResults), maxSuggestionResults)
	}
}

func TestSearchByPlaceID(t *testing.T) {
	c := &fakeClient{place: fakePlace()}
	api := newAPI(t, c, allOptions(), nil)

	res := api.SearchByPlaceID(context.Background(), geocoder.GeocodeConfig{Query: "place-42", Language: []string{"en"}})
	if res.Place == nil {
		t.Fatal("place is nil")
	}
	if res.Place.ID != "place-42" || res.Place.Text != "A fake place" {
		t.Fatalf("unexpected place: %+v", res.Place)
	}
	raw, _ := json.Marshal(res.Place.Properties)
	if !strings.Contains(string(raw), `"PlaceId":"place-42"`) {
		t.Fatalf("properties missing requested id: %s", raw)
	}
	if aws.ToString(c.placeIn.PlaceId) != "place-42" || aws.ToString(c.placeIn.IndexName) != "TestPlaceIndex" {
		t.Fatalf("unexpected request: %+v", c.placeIn)
	}
}

func TestBackendError_EmptyResults(t *testing.T) {
	var logs bytes.Buffer
	c := &fakeClient{err: errors.New("This is a test error.")}
	api := newAPI(t, c, allOptions(), &logs)
	ctx := context.Background()

	if res := api.ForwardGeocode(ctx, baseConfig()); res.Features == nil || len(res.Features) != 0 {
		t.Fatalf("forward: %+v", res)
	}
	if res := api.ReverseGeocode(ctx, geocoder.GeocodeConfig{QueryPosition: []float64{1, 2}}); len(res.Features) != 0 {
		t.Fatalf("reverse: %+v", res)
	}
	if res := api.GetSuggestions(ctx, baseConfig()); res.Suggestions == nil || len(res.Suggestions) != 0 {
		t.Fatalf("suggestions: %+v", res)
	}
	if res := api.SearchByPlaceID(ctx, baseConfig()); res.Place != nil {
		t.Fatalf("place: %+v", res.Place)
	}

	for _, op := range []string{"forwardGeocode", "reverseGeocode", "getSuggestions", "searchByPlaceId"} {
		want := "Failed to " + op + " with error: This is a test error."
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("log missing %q:\n%s", want, logs.String())
		}
	}
}

func TestNewAPI_OptionalOperations(t *testing.T) {
	api := newAPI(t, &fakeClient{}, geocoder.Options{PlacesIndex: "idx"}, nil)
	if api.ForwardGeocode == nil || api.ReverseGeocode == nil {
		t.Fatal("forward and reverse must always be wired")
	}
	if api.GetSuggestions != nil || api.SearchByPlaceID != nil {
		t.Fatal("optional operations wired without being enabled")
	}

	api = newAPI(t, &fakeClient{}, geocoder.Options{PlacesIndex: "idx", EnableGetSuggestions: true}, nil)
	if api.GetSuggestions == nil || api.SearchByPlaceID != nil {
		t.Fatal("only suggestions should be wired")
	}
}

func TestNewAPI_MissingIndex(t *testing.T) {
	if _, err := NewAPI(&fakeClient{}, geocoder.Options{EnableSearchByPlaceID: true}, nil); !errors.Is(err, geocoder.ErrMissingPlacesIndex) {
		t.Fatalf("err=%v want ErrMissingPlacesIndex", err)
	}
	if _, err := NewAPI(&fakeClient{}, geocoder.Options{}, nil); err != nil {
		t.Fatalf("forward/reverse only should not need an index: %v", err)
	}
}
