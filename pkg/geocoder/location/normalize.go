package location

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/location/types"

	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

var placeType = []string{"place"}

func placePoint(p *types.Place) ([]float64, string) {
	if p == nil || p.Geometry == nil {
		return nil, ""
	}
	return p.Geometry.Point, aws.ToString(p.Label)
}

func textFeatures(results []types.SearchForTextResult) geocoder.FeatureResults {
	res := geocoder.EmptyFeatures()
	for _, r := range results {
		point, label := placePoint(r.Place)
		if f, ok := geocoder.NewFeature(aws.ToString(r.PlaceId), label, point, placeType, r); ok {
			res.Features = append(res.Features, f)
		}
	}
	return res
}

func positionFeatures(results []types.SearchForPositionResult) geocoder.FeatureResults {
	res := geocoder.EmptyFeatures()
	for _, r := range results {
		point, label := placePoint(r.Place)
		if f, ok := geocoder.NewFeature(aws.ToString(r.PlaceId), label, point, placeType, r); ok {
			res.Features = append(res.Features, f)
		}
	}
	return res
}

func suggestions(results []types.SearchForSuggestionsResult, omitWithoutPlaceID bool) geocoder.SuggestionResults {
	res := geocoder.EmptySuggestions()
	for _, r := range results {
		if omitWithoutPlaceID && aws.ToString(r.PlaceId) == "" {
			continue
		}
		s := geocoder.Suggestion{Text: aws.ToString(r.Text)}
		if id := aws.ToString(r.PlaceId); id != "" {
			s.PlaceID = aws.String(id)
		}
		res.Suggestions = append(res.Suggestions, s)
	}
	return res
}

// placeProperties is the GetPlace payload with the id it was fetched by.
type placeProperties struct {
	Place   *types.Place
	PlaceID string `json:"PlaceId"`
}

func placeResult(placeID string, p *types.Place) geocoder.PlaceResult {
	point, label := placePoint(p)
	f, ok := geocoder.NewFeature(placeID, label, point, nil, placeProperties{Place: p, PlaceID: placeID})
	if !ok {
		return geocoder.PlaceResult{}
	}
	return geocoder.PlaceResult{Place: &f}
}
