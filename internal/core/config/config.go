package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendLocation  = "location"
	BackendGeoPlaces = "geoplaces"
)

type AWSCfg struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string
	Timeout         time.Duration
}

type GeocoderCfg struct {
	Backend                       string
	PlacesIndex                   string
	EnableAll                     bool
	EnableReverseGeocode          bool
	EnableSearchByPlaceID         bool
	EnableGetSuggestions          bool
	OmitSuggestionsWithoutPlaceID bool

	ForwardAdditionalFeatures []string
	ReverseAdditionalFeatures []string
	PlaceAdditionalFeatures   []string

	Language    string
	Placeholder string
	MinLength   int
	Limit       int
	Zoom        int
}

type MetricsCfg struct {
	Enabled bool
	Addr    string
	Path    string
}

type Config struct {
	Addr       string
	LogLevel   string
	LogConsole bool
	LogSampleN int
	AWS        AWSCfg
	Geocoder   GeocoderCfg
	Metrics    MetricsCfg
}

// Load reads an optional .env file, then the environment. Variables already
// set win over the file.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
	return FromEnv()
}

func FromEnv() Config {
	backend := strings.ToLower(strings.TrimSpace(getenv("GEOCODER_BACKEND", BackendGeoPlaces)))

	return Config{
		Addr:       getenv("ADDR", ":8090"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogConsole: getbool("LOG_CONSOLE", false),
		LogSampleN: getint("LOG_SAMPLE_N", 0),
		AWS: AWSCfg{
			Region:          getenv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getenv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY", ""),
			SessionToken:    getenv("AWS_SESSION_TOKEN", ""),
			Endpoint:        getenv("AWS_ENDPOINT_URL", ""),
			Timeout:         getduration("AWS_HTTP_TIMEOUT", 10*time.Second),
		},
		Geocoder: GeocoderCfg{
			Backend:                       backend,
			PlacesIndex:                   getenv("PLACES_INDEX", ""),
			EnableAll:                     getbool("GEOCODER_ENABLE_ALL", false),
			EnableReverseGeocode:          getbool("GEOCODER_ENABLE_REVERSE_GEOCODE", false),
			EnableSearchByPlaceID:         getbool("GEOCODER_ENABLE_SEARCH_BY_PLACE_ID", false),
			EnableGetSuggestions:          getbool("GEOCODER_ENABLE_GET_SUGGESTIONS", false),
			OmitSuggestionsWithoutPlaceID: getbool("GEOCODER_OMIT_SUGGESTIONS_WITHOUT_PLACE_ID", false),
			ForwardAdditionalFeatures:     getlist("GEOCODER_FORWARD_ADDITIONAL_FEATURES"),
			ReverseAdditionalFeatures:     getlist("GEOCODER_REVERSE_ADDITIONAL_FEATURES"),
			PlaceAdditionalFeatures:       getlist("GEOCODER_PLACE_ADDITIONAL_FEATURES"),
			Language:                      getenv("GEOCODER_LANGUAGE", "en"),
			Placeholder:                   getenv("GEOCODER_PLACEHOLDER", "Search"),
			MinLength:                     getint("GEOCODER_MIN_LENGTH", 2),
			Limit:                         getint("GEOCODER_LIMIT", 5),
			Zoom:                          getint("GEOCODER_ZOOM", 16),
		},
		Metrics: MetricsCfg{
			Enabled: getbool("METRICS_ENABLED", true),
			Addr:    getenv("METRICS_ADDR", ":9090"),
			Path:    getenv("METRICS_PATH", "/metrics"),
		},
	}
}

// Validate rejects settings that would otherwise only fail on first use.
func (c Config) Validate() error {
	switch c.Geocoder.Backend {
	case BackendLocation, BackendGeoPlaces:
	default:
		return fmt.Errorf("GEOCODER_BACKEND %q: want %q or %q", c.Geocoder.Backend, BackendLocation, BackendGeoPlaces)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getlist returns nil when k is unset so callers can tell "default" from
// "explicitly empty" ("-").
func getlist(k string) []string {
	v, ok := os.LookupEnv(k)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	out := []string{}
	if strings.TrimSpace(v) == "-" {
		return out
	}
	for p := range strings.SplitSeq(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
