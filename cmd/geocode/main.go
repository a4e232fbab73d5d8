package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mohammed-shakir/location-geocoder/internal/app"
	"github.com/mohammed-shakir/location-geocoder/internal/core/config"
	"github.com/mohammed-shakir/location-geocoder/internal/core/observability"
	"github.com/mohammed-shakir/location-geocoder/internal/core/router"
	"github.com/mohammed-shakir/location-geocoder/internal/logger"
	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	op         string
	query      string
	backend    string
	envFile    string
	language   string
	types      string
	countries  string
	bbox       string
	proximity  string
	limit      string
	timeout    time.Duration
	categories string
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("geocode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.op, "op", "forward", "operation: forward|reverse|suggest|place")
	fs.StringVar(&f.query, "q", "", "query text, \"lon,lat\" for reverse, or a place id")
	fs.StringVar(&f.backend, "backend", "", "override GEOCODER_BACKEND (location|geoplaces)")
	fs.StringVar(&f.envFile, "env", ".env", "optional dotenv file")
	fs.StringVar(&f.language, "language", "", "comma-separated languages; the first is used")
	fs.StringVar(&f.types, "types", "", "comma-separated category names sent as-is")
	fs.StringVar(&f.categories, "categories", "", "comma-separated categories applied through the filter")
	fs.StringVar(&f.countries, "countries", "", "comma-separated ISO 3166 country codes")
	fs.StringVar(&f.bbox, "bbox", "", "west,south,east,north")
	fs.StringVar(&f.proximity, "proximity", "", "lon,lat bias position")
	fs.StringVar(&f.limit, "limit", "", "maximum results")
	fs.DurationVar(&f.timeout, "timeout", 15*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	if f.query == "" && fs.NArg() > 0 {
		f.query = strings.Join(fs.Args(), " ")
	}
	switch f.op {
	case "forward", "reverse", "suggest", "place":
	default:
		return cliFlags{}, fmt.Errorf("unknown op %q", f.op)
	}
	if strings.TrimSpace(f.query) == "" {
		return cliFlags{}, errors.New("missing query: pass -q or a trailing argument")
	}
	return f, nil
}

func (f cliFlags) request() (geocoder.GeocodeConfig, error) {
	v := url.Values{}
	for k, s := range map[string]string{
		"q":         f.query,
		"language":  f.language,
		"types":     f.types,
		"countries": f.countries,
		"bbox":      f.bbox,
		"proximity": f.proximity,
		"limit":     f.limit,
	} {
		if s != "" {
			v.Set(k, s)
		}
	}
	req, err := router.ParseGeocodeRequest(v)
	if err != nil {
		return geocoder.GeocodeConfig{}, err
	}
	if f.op == "reverse" {
		pos, err := router.ParseLonLat(f.query)
		if err != nil {
			return geocoder.GeocodeConfig{}, fmt.Errorf("invalid position %q: %w", f.query, err)
		}
		req.QueryPosition = pos
	}
	return req, nil
}

// applyCategories feeds -categories through the filter so unknown names
// are rejected the same way the HTTP filter routes reject them.
func applyCategories(g *geocoder.Geocoder, raw string) error {
	for _, c := range geocoder.SplitList(raw) {
		if !g.AddCategoryFilter(c) {
			return fmt.Errorf("category %q rejected", c)
		}
	}
	return nil
}

func execute(ctx context.Context, g *geocoder.Geocoder, op string, req geocoder.GeocodeConfig) (any, error) {
	c := g.Control()
	switch op {
	case "forward":
		return c.Forward(ctx, req), nil
	case "reverse":
		if res, ok := c.Reverse(ctx, req); ok {
			return res, nil
		}
	case "suggest":
		if res, ok := c.Suggest(ctx, req); ok {
			return res, nil
		}
	case "place":
		if res, ok := c.Place(ctx, req); ok {
			return res, nil
		}
	}
	return nil, fmt.Errorf("operation %s is not enabled; set GEOCODER_ENABLE_ALL or the matching GEOCODER_ENABLE_* flag", op)
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stderr, "geocode:", err)
		}
		return 2
	}
	req, err := f.request()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "geocode:", err)
		return 2
	}

	cfg := config.Load(f.envFile)
	if b := strings.ToLower(strings.TrimSpace(f.backend)); b != "" {
		cfg.Geocoder.Backend = b
	}
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, "geocode:", err)
		return 2
	}
	// a one-shot lookup never needs the debounce threshold
	cfg.Geocoder.MinLength = 0

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   true,
		Backend:   cfg.Geocoder.Backend,
		Component: "geocode",
	}, stderr)
	log := logger.NewSlog(&zl)
	observability.Init(nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	g, err := app.NewGeocoder(ctx, cfg, log)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "geocode:", err)
		return 1
	}
	if err := applyCategories(g, f.categories); err != nil {
		_, _ = fmt.Fprintln(stderr, "geocode:", err)
		return 2
	}

	res, err := execute(ctx, g, f.op, req)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "geocode:", err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		_, _ = fmt.Fprintln(stderr, "geocode:", err)
		return 1
	}
	return 0
}
