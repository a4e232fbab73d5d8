// Package app assembles a geocoder from process configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mohammed-shakir/location-geocoder/internal/awsclient"
	"github.com/mohammed-shakir/location-geocoder/internal/core/config"
	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
	_ "github.com/mohammed-shakir/location-geocoder/pkg/geocoder/geoplaces"
	_ "github.com/mohammed-shakir/location-geocoder/pkg/geocoder/location"
)

// Options maps GEOCODER_* settings onto geocoder build options.
func Options(cfg config.GeocoderCfg) geocoder.Options {
	return geocoder.Options{
		EnableAll:                         cfg.EnableAll,
		EnableReverseGeocode:              cfg.EnableReverseGeocode,
		EnableSearchByPlaceID:             cfg.EnableSearchByPlaceID,
		EnableGetSuggestions:              cfg.EnableGetSuggestions,
		OmitSuggestionsWithoutPlaceID:     cfg.OmitSuggestionsWithoutPlaceID,
		PlacesIndex:                       cfg.PlacesIndex,
		ForwardGeocodeAdditionalFeatures:  cfg.ForwardAdditionalFeatures,
		ReverseGeocodeAdditionalFeatures:  cfg.ReverseAdditionalFeatures,
		SearchByPlaceIDAdditionalFeatures: cfg.PlaceAdditionalFeatures,
		Widget: geocoder.WidgetOptions{
			Placeholder: cfg.Placeholder,
			Zoom:        cfg.Zoom,
			MinLength:   cfg.MinLength,
			Language:    cfg.Language,
			Limit:       cfg.Limit,
		},
	}
}

// NewGeocoder builds the configured AWS client and wraps it.
func NewGeocoder(ctx context.Context, cfg config.Config, logger *slog.Logger) (*geocoder.Geocoder, error) {
	client, err := awsclient.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	g, err := geocoder.Build(client, Options(cfg.Geocoder), logger)
	if err != nil {
		return nil, fmt.Errorf("build geocoder: %w", err)
	}
	return g, nil
}
