// Package awsclient builds the Amazon Location SDK client selected by
// configuration.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/geoplaces"
	"github.com/aws/aws-sdk-go-v2/service/location"

	"github.com/mohammed-shakir/location-geocoder/internal/core/config"
	"github.com/mohammed-shakir/location-geocoder/internal/core/httpclient"
)

// LoadConfig resolves region and credentials. Static keys win over the
// default provider chain when both are set.
func LoadConfig(ctx context.Context, cfg config.AWSCfg) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpclient.NewOutbound(cfg.Timeout)),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// New returns a *location.Client or *geoplaces.Client for cfg.Geocoder.Backend.
func New(ctx context.Context, cfg config.Config) (any, error) {
	awsCfg, err := LoadConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return FromConfig(awsCfg, cfg.Geocoder.Backend, cfg.AWS.Endpoint)
}

// FromConfig builds the client for backend from an already resolved config.
func FromConfig(awsCfg aws.Config, backend, endpoint string) (any, error) {
	switch backend {
	case config.BackendLocation:
		return location.NewFromConfig(awsCfg, func(o *location.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}), nil
	case config.BackendGeoPlaces:
		return geoplaces.NewFromConfig(awsCfg, func(o *geoplaces.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown geocoder backend %q", backend)
	}
}
