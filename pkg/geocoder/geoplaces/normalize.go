package geoplaces

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/geoplaces"
	"github.com/aws/aws-sdk-go-v2/service/geoplaces/types"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

func addressLabel(a *types.Address) string {
	if a == nil {
		return ""
	}
	return aws.ToString(a.Label)
}

// searchFeatures labels results by their address.
func searchFeatures(items []types.SearchTextResultItem) geocoder.FeatureResults {
	res := geocoder.EmptyFeatures()
	for _, it := range items {
		var placeType []string
		if it.PlaceType != "" {
			placeType = []string{string(it.PlaceType)}
		}
		f, ok := geocoder.NewFeature(aws.ToString(it.PlaceId), addressLabel(it.Address), it.Position, placeType, it)
		if ok {
			res.Features = append(res.Features, f)
		}
	}
	return res
}

// reverseFeatures labels results by title and drops those without an address.
func reverseFeatures(items []types.ReverseGeocodeResultItem) geocoder.FeatureResults {
	res := geocoder.EmptyFeatures()
	for _, it := range items {
		if it.Address == nil {
			continue
		}
		f, ok := geocoder.NewFeature(aws.ToString(it.PlaceId), aws.ToString(it.Title), it.Position, []string{"place"}, it)
		if ok {
			res.Features = append(res.Features, f)
		}
	}
	return res
}

// suggestItems keeps query refinements with a nil place id.
func suggestItems(items []types.SuggestResultItem) geocoder.SuggestionResults {
	res := geocoder.EmptySuggestions()
	for _, it := range items {
		var s geocoder.Suggestion
		switch {
		case it.Query != nil:
			s.Text = aws.ToString(it.Title)
		case it.Place != nil:
			s.Text = addressLabel(it.Place.Address)
		}
		if it.Place != nil && aws.ToString(it.Place.PlaceId) != "" {
			s.PlaceID = it.Place.PlaceId
		}
		if s.Text == "" {
			continue
		}
		res.Suggestions = append(res.Suggestions, s)
	}
	return res
}

func autocompleteItems(items []types.AutocompleteResultItem) geocoder.SuggestionResults {
	res := geocoder.EmptySuggestions()
	for _, it := range items {
		label := addressLabel(it.Address)
		if label == "" || aws.ToString(it.PlaceId) == "" {
			continue
		}
		res.Suggestions = append(res.Suggestions, geocoder.Suggestion{Text: label, PlaceID: it.PlaceId})
	}
	return res
}

// placeRecord is the full GetPlace output with the SDK response metadata
// hidden; the shallower ResultMetadata shadows the embedded one and is
// always omitted.
type placeRecord struct {
	*sdk.GetPlaceOutput
	ResultMetadata *struct{} `json:"ResultMetadata,omitempty"`
}

func placeResult(out *sdk.GetPlaceOutput) geocoder.PlaceResult {
	f, ok := geocoder.NewFeature(aws.ToString(out.PlaceId), aws.ToString(out.Title), out.Position, nil, placeRecord{GetPlaceOutput: out})
	if !ok {
		return geocoder.PlaceResult{}
	}
	return geocoder.PlaceResult{Place: &f}
}
